// Package ageclass derives competition age classes from birth year and sex.
// The boundary table is fixed per season and supplied by configuration, so a
// new season's rulebook never requires a code change.
package ageclass

// Sex is the registered sex of a shooter.
type Sex string

const (
	Male    Sex = "male"
	Female  Sex = "female"
	Unknown Sex = "unknown"
)

// Class is one row of the season's age-class table. A MaxAge of 0 means
// open-ended; an empty Sex matches both sexes.
type Class struct {
	Label  string `yaml:"label"`
	MinAge int    `yaml:"min_age"`
	MaxAge int    `yaml:"max_age"`
	Sex    Sex    `yaml:"sex"`
}

// Table is the ordered age-class table in force for one season. Classification
// walks the table in order and returns the first match.
type Table struct {
	SeasonYear int     `yaml:"season_year"`
	Classes    []Class `yaml:"classes"`
}

// Classify returns the age class for a shooter born in birthYear, or nil when
// classification is undefined: missing birth year, unknown sex, or an age
// outside every table row. A nil result is a valid outcome, not an error.
func (t Table) Classify(birthYear int, sex Sex) *Class {
	if birthYear <= 0 || (sex != Male && sex != Female) {
		return nil
	}
	age := t.SeasonYear - birthYear
	if age < 0 {
		return nil
	}
	for i := range t.Classes {
		c := &t.Classes[i]
		if c.Sex != "" && c.Sex != sex {
			continue
		}
		if age < c.MinAge {
			continue
		}
		if c.MaxAge != 0 && age > c.MaxAge {
			continue
		}
		return c
	}
	return nil
}

// DefaultTable returns the association's standard table for the given season
// year. Seniors are split in five-year bands from 51 upward.
func DefaultTable(seasonYear int) Table {
	return Table{
		SeasonYear: seasonYear,
		Classes: []Class{
			{Label: "Schüler m", MinAge: 0, MaxAge: 14, Sex: Male},
			{Label: "Schüler w", MinAge: 0, MaxAge: 14, Sex: Female},
			{Label: "Jugend m", MinAge: 15, MaxAge: 16, Sex: Male},
			{Label: "Jugend w", MinAge: 15, MaxAge: 16, Sex: Female},
			{Label: "Junioren II m", MinAge: 17, MaxAge: 18, Sex: Male},
			{Label: "Junioren II w", MinAge: 17, MaxAge: 18, Sex: Female},
			{Label: "Junioren I m", MinAge: 19, MaxAge: 20, Sex: Male},
			{Label: "Junioren I w", MinAge: 19, MaxAge: 20, Sex: Female},
			{Label: "Herren I", MinAge: 21, MaxAge: 40, Sex: Male},
			{Label: "Damen I", MinAge: 21, MaxAge: 40, Sex: Female},
			{Label: "Herren II", MinAge: 41, MaxAge: 50, Sex: Male},
			{Label: "Damen II", MinAge: 41, MaxAge: 50, Sex: Female},
			{Label: "Senioren 0 m", MinAge: 51, MaxAge: 54, Sex: Male},
			{Label: "Senioren 0 w", MinAge: 51, MaxAge: 54, Sex: Female},
			{Label: "Senioren I m", MinAge: 55, MaxAge: 59, Sex: Male},
			{Label: "Senioren I w", MinAge: 55, MaxAge: 59, Sex: Female},
			{Label: "Senioren II m", MinAge: 60, MaxAge: 64, Sex: Male},
			{Label: "Senioren II w", MinAge: 60, MaxAge: 64, Sex: Female},
			{Label: "Senioren III m", MinAge: 65, MaxAge: 69, Sex: Male},
			{Label: "Senioren III w", MinAge: 65, MaxAge: 69, Sex: Female},
			{Label: "Senioren IV m", MinAge: 70, MaxAge: 74, Sex: Male},
			{Label: "Senioren IV w", MinAge: 70, MaxAge: 74, Sex: Female},
			{Label: "Senioren V m", MinAge: 75, Sex: Male},
			{Label: "Senioren V w", MinAge: 75, Sex: Female},
		},
	}
}
