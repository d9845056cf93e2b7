package service

import (
	"sluff/internal/engine"
	"sluff/internal/game"
)

// LobbyTable is one table's summary line in the lobby.
type LobbyTable struct {
	TableID        string   `json:"tableId"`
	TableName      string   `json:"tableName"`
	State          string   `json:"state"`
	Players        []string `json:"players"`
	PlayerCount    int      `json:"playerCount"`
	GameInProgress bool     `json:"gameInProgress"`
}

// LobbyTheme groups tables sharing a buy-in cost.
type LobbyTheme struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Cost   float64      `json:"cost"`
	Tables []LobbyTable `json:"tables"`
}

// LobbyState is the full lobby snapshot sent on every change.
type LobbyState struct {
	Themes        []LobbyTheme `json:"themes"`
	ServerVersion string       `json:"serverVersion"`
}

// LobbyState assembles the snapshot. Tables are locked one at a time, never
// while another table lock is held.
func (s *Service) LobbyState() LobbyState {
	byTheme := make(map[string][]LobbyTable, len(game.Themes))
	for _, id := range s.tableOrder {
		t := s.tables[id]
		t.mu.Lock()
		e := t.eng
		names := make([]string, 0, len(e.Seats))
		for _, seat := range e.Seats {
			if p := e.Players[seat]; p != nil {
				names = append(names, p.Name)
			}
		}
		byTheme[e.Theme] = append(byTheme[e.Theme], LobbyTable{
			TableID:        e.TableID,
			TableName:      e.TableName,
			State:          string(e.Phase),
			Players:        names,
			PlayerCount:    len(names),
			GameInProgress: e.GameStarted,
		})
		t.mu.Unlock()
	}

	out := LobbyState{ServerVersion: engine.ServerVersion}
	for _, theme := range game.Themes {
		out.Themes = append(out.Themes, LobbyTheme{
			ID:     theme.ID,
			Name:   theme.Name,
			Cost:   theme.Cost,
			Tables: byTheme[theme.ID],
		})
	}
	return out
}

// BroadcastLobby pushes the snapshot to every connection. Callers holding a
// table lock must invoke it on a fresh goroutine.
func (s *Service) BroadcastLobby() {
	s.bc.ToAll("lobbyState", s.LobbyState())
}
