package loop

// GameState is the phase of a World.
type GameState int

const (
	GameStateIdle    GameState = iota // Before the first start and after game over
	GameStateRunning                  // Frame driver active
	GameStatePaused                   // Stopped by focus loss, left only through Start
)

func (s GameState) String() string {
	switch s {
	case GameStateIdle:
		return "idle"
	case GameStateRunning:
		return "running"
	case GameStatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
