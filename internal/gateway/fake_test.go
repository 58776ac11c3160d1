package gateway

// fakeGateway satisfies PaymentGateway for factory tests; only identity
// methods are implemented, the embedded interface panics on anything else.
type fakeGateway struct {
	PaymentGateway
	id        string
	name      string
	available bool
}

func (f *fakeGateway) ID() string      { return f.id }
func (f *fakeGateway) Name() string    { return f.name }
func (f *fakeGateway) Available() bool { return f.available }
