package transaction

// RunInScope runs body inside a new transaction. The transaction is committed if body returns nil and rolled
// back if body returns an error or panics. Either only happens if the transaction is still the innermost one,
// so body may close it itself. The error from body is returned as is, and a panic is re-raised after the
// rollback.
func (s *Session) RunInScope(body func(*Session) error) error {
	c := s.store.begin(s.id)

	defer func() {
		if r := recover(); r != nil {
			s.store.rollbackIf(s.id, c)
			panic(r)
		}
	}()

	if err := body(s); err != nil {
		s.store.rollbackIf(s.id, c)
		return err
	}
	s.store.commitIf(s.id, c)
	return nil
}
