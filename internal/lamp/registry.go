package lamp

// registry is the fixed, ordered lamp set. List results follow this order.
var registry = [...]Name{Lamp1, Lamp2, Lamp3, Lamp4}

// All returns the registry lamps in declaration order.
func All() []Name {
	names := make([]Name, len(registry))
	copy(names, registry[:])
	return names
}
