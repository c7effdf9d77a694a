package readengine

// Statistics holds performance counters for the engine.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64

	// DescriptorsAccepted is the number of descriptors taken from the
	// intake channel.
	DescriptorsAccepted uint64

	// DescriptorsCompleted is the number of completions emitted.
	DescriptorsCompleted uint64

	// BurstsIssued is the number of bus burst commands issued.
	BurstsIssued uint64

	// BeatsIn is the number of bus data beats consumed.
	BeatsIn uint64

	// BeatsOut is the number of stream beats delivered downstream.
	BeatsOut uint64

	// StallCycles is the number of cycles a stream beat was presented
	// but the consumer was not ready.
	StallCycles uint64
}

// Utilization returns delivered beats per cycle.
func (s Statistics) Utilization() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.BeatsOut) / float64(s.Cycles)
}
