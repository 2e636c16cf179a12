package ts

// Sample is one normalized touch sample handed to pipeline consumers.
// Sec and Usec split the event time the way the classic timeval did.
// Pressure is populated by other pipeline stages; input modules that
// have no pressure data leave it alone.
type Sample struct {
	X        int32
	Y        int32
	Sec      int64
	Usec     int64
	Pressure uint32
}
