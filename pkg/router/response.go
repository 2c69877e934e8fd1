package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(err error) response {
	errx := errorx.Friendly(err)
	return response{
		Code:  int64(errx.Code),
		Error: errx.Message,
	}
}

func writeResponse(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)
	if err := xcontext.Error(ctx); err != nil {
		if werr := WriteJSON(w, newErrorResponse(err)); werr != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", werr)
		}
		return
	}

	if err := WriteJSON(w, newResponse(xcontext.Response(ctx))); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJSON(w http.ResponseWriter, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
