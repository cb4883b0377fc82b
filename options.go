package traitx

import "go.uber.org/zap"

// Delivery selects how observer faults are handled during dispatch.
type Delivery int

const (
	// FailFast stops delivery at the first faulting observer and returns its
	// error to the writer.
	FailFast Delivery = iota
	// BestEffort logs observer faults and keeps delivering.
	BestEffort
)

// Option configures a Schema via the functional options pattern.
type Option func(*Schema)

// WithLogger sets the logger used for best-effort delivery faults and hold
// rollbacks. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Schema) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDelivery sets the observer fault policy.
func WithDelivery(d Delivery) Option {
	return func(s *Schema) {
		s.delivery = d
	}
}

// InstanceOption configures an Instance at construction.
type InstanceOption func(*instanceConfig)

type instanceConfig struct {
	values []initialValue
}

type initialValue struct {
	name  string
	value any
}

// WithValue supplies an initial value. All initial values are applied in
// order inside one hold, as owner-privileged writes.
func WithValue(name string, v any) InstanceOption {
	return func(c *instanceConfig) {
		c.values = append(c.values, initialValue{name: name, value: v})
	}
}
