package club_test

import (
	"testing"
	"time"

	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
)

func TestCloneIsDeep(t *testing.T) {
	s := club.Empty(2026)
	s.Players = append(s.Players, member.New("m1", "Ana", "", "GK", 2026, time.Now()))
	c, err := s.Clone()
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	c.Players[0].Attendance["2026-01-03"] = true
	c.Players[0].Name = "Changed"
	if len(s.Players[0].Attendance) != 0 || s.Players[0].Name != "Ana" {
		t.Error("mutating the clone changed the original")
	}
}

func TestFindersAndIdentity(t *testing.T) {
	s := club.Empty(2026)
	s.Players = append(s.Players, member.New("m1", "Ana", "Ani", "GK", 2026, time.Now()))
	if s.FindPlayer("m1") != 0 || s.FindPlayer("nope") != -1 {
		t.Error("FindPlayer returned wrong index")
	}
	if !s.HasIdentity(member.IdentityKey("ANA", " ani"), "") {
		t.Error("HasIdentity should match normalized key")
	}
	if s.HasIdentity(member.IdentityKey("Ana", "Ani"), "m1") {
		t.Error("HasIdentity should skip the excepted id")
	}
}
