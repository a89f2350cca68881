package league

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateLeagueInput
		wantErr error
	}{
		{
			name: "valid input",
			input: CreateLeagueInput{
				Name:       "Kreisliga",
				Discipline: "LG",
				Year:       2026,
				RoundCount: 4,
			},
			wantErr: nil,
		},
		{
			name: "empty name",
			input: CreateLeagueInput{
				Name:       "",
				Discipline: "LG",
				Year:       2026,
				RoundCount: 4,
			},
			wantErr: ErrNameRequired,
		},
		{
			name: "whitespace-only name",
			input: CreateLeagueInput{
				Name:       "   ",
				Discipline: "LG",
				Year:       2026,
				RoundCount: 4,
			},
			wantErr: ErrNameRequired,
		},
		{
			name: "unknown discipline",
			input: CreateLeagueInput{
				Name:       "Kreisliga",
				Discipline: "Bogen",
				Year:       2026,
				RoundCount: 4,
			},
			wantErr: ErrDisciplineInvalid,
		},
		{
			name: "missing discipline",
			input: CreateLeagueInput{
				Name:       "Kreisliga",
				Year:       2026,
				RoundCount: 4,
			},
			wantErr: ErrDisciplineInvalid,
		},
		{
			name: "year too small",
			input: CreateLeagueInput{
				Name:       "Kreisliga",
				Discipline: "LP",
				Year:       26,
				RoundCount: 4,
			},
			wantErr: ErrYearInvalid,
		},
		{
			name: "round count zero",
			input: CreateLeagueInput{
				Name:       "Kreisliga",
				Discipline: "KK",
				Year:       2026,
				RoundCount: 0,
			},
			wantErr: ErrRoundCountInvalid,
		},
		{
			name: "round count too large",
			input: CreateLeagueInput{
				Name:       "Kreisliga",
				Discipline: "KK",
				Year:       2026,
				RoundCount: 11,
			},
			wantErr: ErrRoundCountInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCreate(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateCreate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	tests := []struct {
		name    string
		input   UpdateLeagueInput
		wantErr error
	}{
		{name: "empty update is valid", input: UpdateLeagueInput{}, wantErr: nil},
		{name: "valid name", input: UpdateLeagueInput{Name: strPtr("Bezirksliga")}, wantErr: nil},
		{name: "blank name", input: UpdateLeagueInput{Name: strPtr("  ")}, wantErr: ErrNameRequired},
		{name: "valid round count", input: UpdateLeagueInput{RoundCount: intPtr(6)}, wantErr: nil},
		{name: "zero round count", input: UpdateLeagueInput{RoundCount: intPtr(0)}, wantErr: ErrRoundCountInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUpdate(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateUpdate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCreateTeam(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTeamInput
		wantErr error
	}{
		{
			name:    "valid input",
			input:   CreateTeamInput{LeagueID: "l-1", ClubID: "c-1", Name: "SV Lauenberg I"},
			wantErr: nil,
		},
		{
			name:    "missing league",
			input:   CreateTeamInput{ClubID: "c-1", Name: "SV Lauenberg I"},
			wantErr: ErrLeagueRequired,
		},
		{
			name:    "missing club",
			input:   CreateTeamInput{LeagueID: "l-1", Name: "SV Lauenberg I"},
			wantErr: ErrClubRequired,
		},
		{
			name:    "missing team name",
			input:   CreateTeamInput{LeagueID: "l-1", ClubID: "c-1"},
			wantErr: ErrTeamNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCreateTeam(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateCreateTeam() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
