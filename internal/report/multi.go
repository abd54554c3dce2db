package report

// Multi fans every table out to several emitters. The first Emit error
// stops the run; Close closes every emitter and returns the first failure.
type Multi []Emitter

func (m Multi) Emit(t Table) error {
	for _, e := range m {
		if err := e.Emit(t); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, e := range m {
		if err := e.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
