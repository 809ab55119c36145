package repository

import (
	"context"
	"fmt"
)

// RoomRepository reads seating for the room/session collaborator contract.
type RoomRepository struct {
	db *DB
}

// NewRoomRepository builds the repository.
func NewRoomRepository(db *DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Players returns the ids of the players seated in a room, in seat order.
func (r *RoomRepository) Players(ctx context.Context, roomID string) ([]string, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT user_id
		 FROM room_players
		 WHERE room_id = $1 AND is_deleted = false
		 ORDER BY player_order`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing players for room %s: %w", roomID, err)
	}
	defer rows.Close()

	var players []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		players = append(players, id)
	}
	return players, rows.Err()
}
