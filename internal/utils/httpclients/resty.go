package httpclients

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

type startsAtKey struct{}

// NewClient builds a resty client with request latency logging attached.
func NewClient(clientName string) *resty.Client {
	client := resty.New()
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), startsAtKey{}, time.Now()))
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		startTime, _ := r.Request.Context().Value(startsAtKey{}).(time.Time)
		log.Debug().
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Str("method", r.Request.Method).
			Str("url", r.Request.URL).
			Dur("latency", time.Since(startTime)).
			Msg("HTTP client request")
		return nil
	})
	return client
}
