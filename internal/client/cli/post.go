package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/validation"
)

func (a *App) Posts(ctx context.Context) error {
	list, err := a.api.Posts(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
		return nil
	}
	for _, p := range list {
		printPost(a.out, p)
	}
	return nil
}

func (a *App) Post(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	text, err := getMultiline(a.reader, "Post text", a.out)
	if err != nil {
		return err
	}

	p, err := a.api.CreatePost(ctx, validation.PostInput{Text: text})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Posted (id %s).\n", p.ID)
	return nil
}
