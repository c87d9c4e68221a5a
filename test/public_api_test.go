package test

import (
	"context"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	goSentinel "github.com/MrEthical07/goSentinel"
	"github.com/MrEthical07/goSentinel/manifest"
)

// Guards the public API for consumers at compile time.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goSentinel.New
	_ = goSentinel.NewRegistry
	_ = goSentinel.Default
	_ = goSentinel.As[string]

	var _ *goSentinel.Registry
	var _ *goSentinel.Constant
	var _ goSentinel.Value
	var _ goSentinel.Config
	var _ goSentinel.Resolved
	var _ goSentinel.AuditSink
	var _ goSentinel.Mirror

	var _ error = goSentinel.ErrNaming
	var _ error = goSentinel.ErrRebind
	var _ error = goSentinel.ErrStringFrozen
	var _ error = goSentinel.ErrUnboundRepresentation
	var _ error = goSentinel.ErrBoolConflict
	var _ error = goSentinel.ErrUnboundBoolean

	var _ func(*goSentinel.Registry, string) (*goSentinel.Constant, error) = (*goSentinel.Registry).GetOrCreate
	var _ func(*goSentinel.Registry, []byte) (*goSentinel.Constant, bool) = (*goSentinel.Registry).FindByDefaultHash
	var _ func(*goSentinel.Registry, any) (goSentinel.Resolved, error) = (*goSentinel.Registry).Resolve
	var _ func(*goSentinel.Registry, context.Context, any) (goSentinel.Resolved, error) = (*goSentinel.Registry).ResolveContext
	var _ func(*goSentinel.Registry) []manifest.Entry = (*goSentinel.Registry).Export
	var _ func(*goSentinel.Constant, any) (*goSentinel.Constant, error) = (*goSentinel.Constant).RepresentAs
	var _ func(*goSentinel.Constant, bool) (*goSentinel.Constant, error) = (*goSentinel.Constant).BoolValue
	var _ func(*goSentinel.Constant) (*big.Int, error) = (*goSentinel.Constant).Int
	var _ func(*goSentinel.Constant, any) (decimal.Decimal, error) = (*goSentinel.Constant).Quo
	var _ func(goSentinel.Op, any, any) (goSentinel.Value, error) = goSentinel.Binary
}
