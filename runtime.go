package zkscffi

import (
	"math/big"

	"go.uber.org/zap"
	"lukechampine.com/uint128"

	"github.com/wippyai/zksc-ffi/config"
	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/extern"
	"github.com/wippyai/zksc-ffi/externs"
	"github.com/wippyai/zksc-ffi/numcodec"
	"github.com/wippyai/zksc-ffi/value"
)

// Runtime couples a configuration with an extern registry holding the
// built-in catalogue.
type Runtime struct {
	cfg      *config.Config
	registry *extern.Registry
	modulus  *domain.Modulus
	current  domain.Domain
}

// New validates cfg and builds a runtime. A nil cfg uses config.Default().
func New(cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := cfg.DefaultModulus()
	if err != nil {
		return nil, err
	}

	reg := extern.NewRegistry()
	if err := externs.Register(reg); err != nil {
		return nil, err
	}
	return &Runtime{
		cfg:      cfg,
		registry: reg,
		modulus:  m,
		current:  cfg.CurrentDomain(),
	}, nil
}

// SetLogger installs l in every package that logs.
func SetLogger(l *zap.Logger) {
	extern.SetLogger(l)
	numcodec.SetLogger(l)
	externs.SetLogger(l)
}

func (r *Runtime) Config() *config.Config {
	return r.cfg
}

func (r *Runtime) Registry() *extern.Registry {
	return r.registry
}

// Domain returns the configured execution domain.
func (r *Runtime) Domain() domain.Domain {
	return r.current
}

// Modulus returns the configured default codec modulus.
func (r *Runtime) Modulus() *domain.Modulus {
	return r.modulus
}

// Register binds an additional native extern.
func (r *Runtime) Register(name string, fn any) error {
	return r.registry.Register(name, fn)
}

// Call invokes an extern in the configured domain.
func (r *Runtime) Call(name string, targs []extern.TypeArg, args ...extern.Arg) (value.Value, error) {
	return r.CallIn(r.current, name, targs, args...)
}

// CallIn invokes an extern while executing in the given domain.
func (r *Runtime) CallIn(current domain.Domain, name string, targs []extern.TypeArg, args ...extern.Arg) (value.Value, error) {
	return r.registry.Invoke(extern.NewContext(current), extern.NewStack(), name, targs, args)
}

// DecodeMatrix decodes field-element rows tagged d into i128 rows through
// the uint_n_pre_matrix_to_i128 extern. rows is not modified.
func (r *Runtime) DecodeMatrix(m *domain.Modulus, d domain.Domain, rows [][]*big.Int) (value.Value, error) {
	var xss value.Value
	if err := catch(func() { xss = extern.Write(r.registry.Compiler(), rows) }); err != nil {
		return value.Value{}, err
	}
	defer xss.Release()
	return r.Call("uint_n_pre_matrix_to_i128",
		[]extern.TypeArg{extern.NatArg(m), extern.DomainArg(d)},
		extern.ByVal(xss))
}

// EncodeMatrix encodes signed rows tagged d into field elements through
// the i128_pre_matrix_to_uint_n extern. Every element must fit in i128.
// rows is not modified.
func (r *Runtime) EncodeMatrix(m *domain.Modulus, d domain.Domain, rows [][]*big.Int) (value.Value, error) {
	var xss value.Value
	err := catch(func() {
		bits := make([][]uint128.Uint128, len(rows))
		for i, row := range rows {
			bits[i] = make([]uint128.Uint128, len(row))
			for j, x := range row {
				bits[i][j] = value.SignedU128(x)
			}
		}
		xss = extern.Write(r.registry.Compiler(), bits)
	})
	if err != nil {
		return value.Value{}, err
	}
	defer xss.Release()
	return r.Call("i128_pre_matrix_to_uint_n",
		[]extern.TypeArg{extern.NatArg(m), extern.DomainArg(d)},
		extern.ByVal(xss))
}
