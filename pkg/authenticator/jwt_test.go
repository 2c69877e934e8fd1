package authenticator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/pkg/authenticator"
)

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, "abc")
	require.Nil(t, err)

	var msg string
	err = engine.Verify(token, &msg)
	require.NoError(t, err)
	require.Equal(t, "abc", msg)
}

func TestJWTStructPayload(t *testing.T) {
	type payload struct {
		ID   string
		Name string
	}

	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, payload{ID: "user1", Name: "lotus"})
	require.NoError(t, err)

	var got payload
	err = engine.Verify(token, &got)
	require.NoError(t, err)
	require.Equal(t, payload{ID: "user1", Name: "lotus"}, got)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(-time.Minute, "abc")
	require.Nil(t, err)

	var msg string
	err = engine.Verify(token, &msg)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := authenticator.NewTokenEngine("secret").Generate(time.Minute, "abc")
	require.NoError(t, err)

	var msg string
	err = authenticator.NewTokenEngine("another").Verify(token, &msg)
	require.Error(t, err)
}
