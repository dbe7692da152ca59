package storage

// Modify is a single mutation of the base store. A committed outermost transaction is lowered into a
// batch of Modifies which is applied in order.
type Modify struct {
	Data interface{}
}

type Put struct {
	Key   string
	Value string
}

type Delete struct {
	Key string
}

func (m *Modify) Key() string {
	switch data := m.Data.(type) {
	case Put:
		return data.Key
	case Delete:
		return data.Key
	}
	return ""
}

func (m *Modify) Value() (string, bool) {
	if put, ok := m.Data.(Put); ok {
		return put.Value, true
	}
	return "", false
}

// Write applies batch to s in order. Puts become Set calls and Deletes become Delete calls.
func Write(s Storage, batch []Modify) {
	for _, m := range batch {
		switch data := m.Data.(type) {
		case Put:
			s.Set(data.Key, data.Value)
		case Delete:
			s.Delete(data.Key)
		}
	}
}
