package value

// ListOf read-converts every element of list v. Method expressions make
// the common cases short:
//
//	xs := value.ListOf(v, value.Value.AsU64)
//	pairs := value.ListOf(v, value.Value.AsTuple)
func ListOf[T any](v Value, read func(Value) T) []T {
	elems := v.AsList()
	out := make([]T, len(elems))
	for i, e := range elems {
		out[i] = read(e)
	}
	return out
}

// FromSlice write-converts xs into a list.
//
//	v := value.FromSlice([]uint64{1, 2}, value.U64)
func FromSlice[T any](xs []T, write func(T) Value) Value {
	elems := make([]Value, len(xs))
	for i, x := range xs {
		elems[i] = write(x)
	}
	return List(elems...)
}

// Matrix read-converts a list of lists.
func Matrix[T any](v Value, read func(Value) T) [][]T {
	rows := v.AsList()
	out := make([][]T, len(rows))
	for i, row := range rows {
		out[i] = ListOf(row, read)
	}
	return out
}

// FromMatrix write-converts rows into a list of lists.
func FromMatrix[T any](rows [][]T, write func(T) Value) Value {
	elems := make([]Value, len(rows))
	for i, row := range rows {
		elems[i] = FromSlice(row, write)
	}
	return List(elems...)
}
