package room

// RoomError is a custom error type for room-related errors
type RoomError string

// Error implements the error interface
func (e RoomError) Error() string {
	return string(e)
}

// Define errors. Only the room-creation/join boundary surfaces these to the
// caller; internal guard failures (not owner, stale round, already finished)
// are silent no-ops.
const (
	ErrMalformedRequest    RoomError = "invalid request"
	ErrRoomNameTooShort    RoomError = "room name must be at least 3 characters"
	ErrRoomNameTooLong     RoomError = "room name must be at most 64 characters"
	ErrRoomNameUnavailable RoomError = "room name is unavailable"
	ErrRoomNotFound        RoomError = "room not found"
	ErrNilConfig           RoomError = "config cannot be nil"
	ErrNilRoomRepo         RoomError = "room repository cannot be nil"
	ErrNilRoomPlayerRepo   RoomError = "room player repository cannot be nil"
	ErrNilPlayerRepo       RoomError = "player repository cannot be nil"
	ErrNilEventSink        RoomError = "event sink cannot be nil"
)
