package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/filex"
	"github.com/dmitrijs2005/devconnector/internal/netx"
)

const maxAvatarBytes = 2 << 20

// uploadFn is a test seam for netx.UploadPresigned.
var uploadFn = netx.UploadPresigned

// Avatar uploads the image at path as the account's avatar.
func (a *App) Avatar(ctx context.Context, path string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	data, contentType, err := filex.ReadLimited(path, maxAvatarBytes)
	if err != nil {
		return err
	}

	up, err := a.api.PrepareAvatarUpload(ctx, contentType)
	if err != nil {
		return err
	}

	if err := uploadFn(ctx, up.URL, contentType, data); err != nil {
		return fmt.Errorf("avatar upload: %w", err)
	}

	fmt.Fprintf(a.out, "Avatar updated: %s\n", up.Avatar)
	return nil
}
