package config

import (
	"log/slog"

	httpctrl "github.com/secmon-lab/formgate/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// Server holds the HTTP listener and transport settings
type Server struct {
	addr        string
	ownerHeader string
	frontendURL string
	maxBodySize int64
}

func (x *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("FORMGATE_ADDR"),
			Destination: &x.addr,
		},
		&cli.StringFlag{
			Name:        "owner-header",
			Usage:       "Request header carrying the owner id set by the authenticating proxy",
			Value:       httpctrl.DefaultOwnerHeader,
			Sources:     cli.EnvVars("FORMGATE_OWNER_HEADER"),
			Destination: &x.ownerHeader,
		},
		&cli.StringFlag{
			Name:        "frontend-url",
			Usage:       "Form renderer URL; enables the /form/{token} redirect",
			Sources:     cli.EnvVars("FORMGATE_FRONTEND_URL"),
			Destination: &x.frontendURL,
		},
		&cli.Int64Flag{
			Name:        "max-body-size",
			Usage:       "Maximum request body size in bytes",
			Value:       httpctrl.DefaultMaxBodySize,
			Sources:     cli.EnvVars("FORMGATE_MAX_BODY_SIZE"),
			Destination: &x.maxBodySize,
		},
	}
}

func (x Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", x.addr),
		slog.String("owner_header", x.ownerHeader),
		slog.String("frontend_url", x.frontendURL),
		slog.Int64("max_body_size", x.maxBodySize),
	)
}

func (x *Server) Addr() string {
	return x.addr
}

// Options returns the HTTP controller options for this configuration
func (x *Server) Options() []httpctrl.Options {
	return []httpctrl.Options{
		httpctrl.WithOwnerHeader(x.ownerHeader),
		httpctrl.WithFrontendURL(x.frontendURL),
		httpctrl.WithMaxBodySize(x.maxBodySize),
	}
}
