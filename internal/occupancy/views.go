package occupancy

import (
	"context"

	"github.com/thekillingspree/quick-entry/internal/model"
	"github.com/thekillingspree/quick-entry/internal/store"
)

// RoomSummary is the read-only projection of a room. Occupancy is read fresh
// for every view; summaries are never served from a mutable cache.
type RoomSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	RoomNumber int    `json:"roomNumber"`
	Capacity   int    `json:"capacity"`
	Current    int    `json:"current"`
}

// VisitRecord is one ledger entry enriched with the room's display fields.
type VisitRecord struct {
	EntryID    int64  `json:"entryId"`
	RoomID     int64  `json:"roomId"`
	RoomName   string `json:"roomName"`
	RoomNumber int    `json:"roomNumber"`
	EnteredAt  int64  `json:"enteredAt"`
	ExitedAt   *int64 `json:"exitedAt"`
}

// Profile is a user's current room plus their ordered visit history.
type Profile struct {
	UserID      int64         `json:"userId"`
	Username    string        `json:"username"`
	FullName    string        `json:"fullname"`
	TecID       string        `json:"tecid"`
	CurrentRoom *RoomSummary  `json:"currentRoom"`
	History     []VisitRecord `json:"history"`
}

// Roster is a room's metadata plus its current occupants.
type Roster struct {
	Room      RoomSummary      `json:"room"`
	Occupants []store.Occupant `json:"occupants"`
}

func summarize(room model.Room) RoomSummary {
	return RoomSummary{
		ID:         room.ID,
		Name:       room.Name,
		RoomNumber: room.RoomNumber,
		Capacity:   room.Capacity,
		Current:    room.Current,
	}
}

// UserProfile builds the user's view: a fresh current-room read plus the full
// visit history in entry-timestamp order.
func (s *Service) UserProfile(ctx context.Context, userID int64) (Profile, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		TecID:    user.TecID,
		History:  make([]VisitRecord, 0),
	}

	if user.CurrentRoomID != nil {
		room, err := s.store.GetRoom(ctx, *user.CurrentRoomID)
		if err != nil {
			return Profile{}, err
		}
		summary := summarize(room)
		profile.CurrentRoom = &summary
	}

	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return Profile{}, err
	}
	roomNames := make(map[int64]model.Room, len(rooms))
	for _, r := range rooms {
		roomNames[r.ID] = r
	}

	for entry, err := range s.store.History(ctx, userID) {
		if err != nil {
			return Profile{}, err
		}
		record := VisitRecord{
			EntryID:   entry.ID,
			RoomID:    entry.RoomID,
			EnteredAt: entry.Timestamp,
			ExitedAt:  entry.ExitTime,
		}
		if room, ok := roomNames[entry.RoomID]; ok {
			record.RoomName = room.Name
			record.RoomNumber = room.RoomNumber
		}
		profile.History = append(profile.History, record)
	}
	return profile, nil
}

// RoomRoster builds the room's view: metadata plus the users currently
// inside, derived from the open entries.
func (s *Service) RoomRoster(ctx context.Context, roomID int64) (Roster, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return Roster{}, err
	}
	occupants, err := s.store.Occupants(ctx, roomID)
	if err != nil {
		return Roster{}, err
	}
	return Roster{Room: summarize(room), Occupants: occupants}, nil
}
