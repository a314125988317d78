package reward

// Rand is the randomness the fever process consumes. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NextFever advances the two-state fever process by one step
func (t *Table) NextFever(on bool, rng Rand) bool {
	roll := rng.Float64()
	if on {
		return roll >= t.FeverOff
	}
	return roll < t.FeverOn
}
