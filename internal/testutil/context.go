package testutil

import (
	"context"

	"github.com/billbook/billbook/internal/types"
)

const (
	DefaultUserName  = "Test User"
	DefaultUserEmail = "test@example.com"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	ctx = context.WithValue(ctx, types.CtxUserName, DefaultUserName)
	ctx = context.WithValue(ctx, types.CtxUserEmail, DefaultUserEmail)
	ctx = context.WithValue(ctx, types.CtxUserRole, "admin")
	return ctx
}
