// Package externs is the built-in extern catalogue: the matrix codec used
// by fixed-point circuits and one extern for each native calling form.
package externs

import (
	"github.com/wippyai/zksc-ffi/extern"
)

// Catalogue returns the built-in externs keyed by DSL name.
func Catalogue() map[string]any {
	return map[string]any{
		"uint_n_pre_matrix_to_i128": uintNPreMatrixToI128,
		"i128_pre_matrix_to_uint_n": i128PreMatrixToUintN,

		"sqr":           sqr,
		"sqr_u128":      sqrU128,
		"cond":          cond,
		"print_i128":    printI128,
		"flist":         flist,
		"farr":          farr,
		"flistlist":     flistlist,
		"ftuple2":       ftuple2,
		"ftuple3":       ftuple3,
		"ftuple4":       ftuple4,
		"ftuple5":       ftuple5,
		"ftuple6":       ftuple6,
		"fnestedtuple1": fnestedtuple1,
		"fnestedtuple2": fnestedtuple2,
		"flisttuple":    flisttuple,
		"fstruct":       fstruct,
		"fstring":       fstring,
		"reverse_list":  reverseList,
		"fmutlist":      fmutlist,
		"fmutlistb":     fmutlistb,
		"fmutlistlist":  fmutlistlist,
		"fmuttuple6":    fmuttuple6,
		"fmutlisttuple": fmutlisttuple,
		"fmutbigint":    fmutbigint,
		"fmutstring":    fmutstring,
		"fmutu64":       fmutu64,
	}
}

// Register binds every built-in extern in r.
func Register(r *extern.Registry) error {
	for name, fn := range Catalogue() {
		if err := r.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}
