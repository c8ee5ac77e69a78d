package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/example/roombook/internal/backend"
	"github.com/example/roombook/internal/booking"
)

// RoomDirectory exposes the collaborator operations the room service needs.
type RoomDirectory interface {
	ListRooms(ctx context.Context) ([]backend.Room, error)
}

// amenityNames maps the backend's 1-based amenity ids to display names.
var amenityNames = []string{"Projector", "WiFi", "Whiteboard", "TV", "Coffee"}

// AmenityName resolves a 1-based amenity id; unknown ids resolve to "".
func AmenityName(id int) string {
	if id < 1 || id > len(amenityNames) {
		return ""
	}
	return amenityNames[id-1]
}

// RoomService lists and filters the room catalog supplied by the booking
// backend.
type RoomService struct {
	rooms  RoomDirectory
	logger *slog.Logger
}

// NewRoomService constructs a room service backed by the given directory.
func NewRoomService(rooms RoomDirectory, logger *slog.Logger) *RoomService {
	return &RoomService{rooms: rooms, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// ListRooms returns the catalog narrowed by filter: rooms must meet the
// minimum capacity and carry every requested amenity. Rooms are ordered by
// name for a stable listing.
func (s *RoomService) ListRooms(ctx context.Context, filter RoomFilter) (rooms []Room, err error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room directory not configured")
	}

	logger := s.loggerWith(ctx, "ListRooms", "min_capacity", filter.MinCapacity)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "rooms listed", "count", len(rooms))
	}()

	catalog, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	rooms = make([]Room, 0, len(catalog))
	for _, entry := range catalog {
		room := toRoom(entry)
		if room.Capacity < filter.MinCapacity {
			continue
		}
		if !hasAllAmenities(room.Amenities, filter.Amenities) {
			continue
		}
		rooms = append(rooms, room)
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Name == rooms[j].Name {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].Name < rooms[j].Name
	})

	if len(rooms) == 0 {
		return nil, nil
	}
	return rooms, nil
}

// GetRoom returns one catalog entry by id.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room directory not configured")
	}

	catalog, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return Room{}, err
	}
	for _, entry := range catalog {
		if entry.ID == roomID {
			return toRoom(entry), nil
		}
	}
	return Room{}, ErrNotFound
}

func toRoom(entry backend.Room) Room {
	amenities := make([]string, 0, len(entry.AmenityIDs))
	for _, id := range entry.AmenityIDs {
		if name := AmenityName(id); name != "" {
			amenities = append(amenities, name)
		}
	}
	bookings := make([]booking.Booking, len(entry.Bookings))
	copy(bookings, entry.Bookings)
	return Room{
		ID:        entry.ID,
		Name:      entry.Name,
		Capacity:  entry.Capacity,
		Floor:     entry.Floor,
		Amenities: amenities,
		Bookings:  bookings,
	}
}

func hasAllAmenities(available, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	for _, want := range requested {
		found := false
		for _, have := range available {
			if strings.EqualFold(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
