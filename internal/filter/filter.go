package filter

type Tool interface {
	Keys(sel Selector) error
	Values(sel Selector) error
	Delete(sel Selector) error
	Dump(sel Selector, dir string) error
	Restore(dir string) error
	Close() error
}
