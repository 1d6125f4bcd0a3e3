package main

import (
	"fmt"

	"github.com/fwojciec/docbot"
	dbhttp "github.com/fwojciec/docbot/http"
	"github.com/gin-gonic/gin"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	idx, err := loadIndex(deps, c.Corpus)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbot.ErrorMessage(err))
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	server := dbhttp.NewServer(deps.Asker, deps.Index,
		dbhttp.WithIndexStore(deps.Store, deps.Dimension),
		dbhttp.WithServerLogger(deps.Logger),
	)

	fmt.Fprintf(deps.Stdout, "Serving %d chunks on %s\n", idx.Len(), c.Addr)
	return server.Serve(deps.Ctx, c.Addr)
}
