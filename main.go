package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"conexa/service"
)

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain runs the command line in os.Args until it finishes or the process
// is interrupted, then exits with its code.
func RealMain() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := service.Execute(ctx, os.Args[1:], os.Stdout, os.Stdin)
	stop()
	exit(code)
}
