package model

// Websocket routes carry no payload; the handshake is the request.

type ServeNotificationProxyRequest struct{}

type ServeNotificationEngineRequest struct{}
