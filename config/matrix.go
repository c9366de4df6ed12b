package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/errors"
)

// matrixFile is the TOML layout of a matrix fixture:
//
//	modulus = "17"
//	domain  = "public"
//	rows    = [[1, 16, 0], ["9", "8", 2]]
type matrixFile struct {
	Modulus string  `toml:"modulus"`
	Domain  string  `toml:"domain"`
	Rows    [][]any `toml:"rows"`
}

// Matrix is a parsed matrix fixture. Rows may be ragged.
type Matrix struct {
	Modulus *domain.Modulus
	Rows    [][]*big.Int
	Domain  domain.Domain
}

// LoadMatrix reads a matrix fixture. The modulus falls back to the codec
// default of cfg; the domain falls back to public.
func LoadMatrix(path string, cfg *Config) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "cannot read "+path)
	}
	return ParseMatrix(data, cfg)
}

// ParseMatrix decodes a matrix fixture from TOML data.
func ParseMatrix(data []byte, cfg *Config) (*Matrix, error) {
	var f matrixFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse error")
	}

	m := &Matrix{Domain: domain.Public}
	var err error
	if strings.TrimSpace(f.Modulus) != "" {
		m.Modulus, err = domain.ParseModulus(f.Modulus)
	} else {
		m.Modulus, err = cfg.DefaultModulus()
	}
	if err != nil {
		return nil, err
	}
	if f.Domain != "" {
		if m.Domain, err = domain.ParseDomain(f.Domain); err != nil {
			return nil, err
		}
	}

	m.Rows = make([][]*big.Int, len(f.Rows))
	for i, row := range f.Rows {
		m.Rows[i] = make([]*big.Int, len(row))
		for j, cell := range row {
			x, err := parseCell(cell)
			if err != nil {
				return nil, errors.New(errors.PhaseConfig, errors.KindInvalidData).
					Path("rows", fmt.Sprintf("[%d]", i), fmt.Sprintf("[%d]", j)).
					Cause(err).
					Build()
			}
			m.Rows[i][j] = x
		}
	}
	return m, nil
}

func parseCell(cell any) (*big.Int, error) {
	switch c := cell.(type) {
	case int64:
		return big.NewInt(c), nil
	case string:
		x, ok := new(big.Int).SetString(strings.ReplaceAll(strings.TrimSpace(c), "_", ""), 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", c)
		}
		return x, nil
	default:
		return nil, fmt.Errorf("matrix cells must be integers or decimal strings, got %T", cell)
	}
}
