package main

import (
	"Classifieds/internal/admin"
	"Classifieds/internal/config"
	"context"
	"flag"
	"os"
)

func main() {
	cfg := config.NewConfig()
	os.Exit(admin.Dispatch(context.Background(), cfg, flag.Args()))
}
