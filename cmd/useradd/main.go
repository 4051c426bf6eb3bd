// Command useradd registers a masterrol user from the terminal. It reads
// the password twice without echo and uses the server's database settings.
//
// Usage:
//
//	useradd -username gm -nombre Ana -apellido Ruiz [-D sqlite -d file:masterrol.db]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/masterrol/internal/flagx"
	"github.com/dmitrijs2005/masterrol/internal/server"
	"github.com/dmitrijs2005/masterrol/internal/server/config"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
)

func main() {
	var reg models.Registration

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.StringVar(&reg.UserName, "username", "", "login name")
	fs.StringVar(&reg.GivenName, "nombre", "", "given name")
	fs.StringVar(&reg.FamilyName, "apellido", "", "family name")
	if err := flagx.ParseKnown(fs, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := register(reg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func register(reg models.Registration) error {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	u, err := run(ctx, app.UserService(), reg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("User %q created with id %d\n", u.UserName, u.ID)
	return nil
}
