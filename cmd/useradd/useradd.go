package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
	"golang.org/x/term"
)

var errPasswordMismatch = errors.New("passwords do not match")

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type registrar interface {
	Register(ctx context.Context, r models.Registration) (*models.User, error)
}

// run asks for the password twice and registers reg.
func run(ctx context.Context, svc registrar, reg models.Registration, w io.Writer) (*models.User, error) {
	pw, err := getPassword(w, "Enter password: ")
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(pw)

	confirm, err := getPassword(w, "Repeat password: ")
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		return nil, errPasswordMismatch
	}

	reg.Password = string(pw)
	return svc.Register(ctx, reg)
}

func getPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
