package common

const (
	BaseWidth   = 1280
	BaseHeight  = 720
	WindowTitle = "webswing"
)

// MillisPerSecond converts frame timestamps, which are in milliseconds.
const MillisPerSecond = 1000.0
