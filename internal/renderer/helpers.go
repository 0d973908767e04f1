package renderer

// Unwind collects cleanups for a multi-step setup and runs them in reverse
// when the setup fails part-way.
type Unwind []func()

func (u *Unwind) Add(cleanup func()) {
	*u = append(*u, cleanup)
}

func (u *Unwind) Unwind() {
	for i := len(*u) - 1; i >= 0; i-- {
		(*u)[i]()
	}
	*u = (*u)[:0]
}

// Discard forgets the cleanups once setup has succeeded.
func (u *Unwind) Discard() {
	*u = (*u)[:0]
}
