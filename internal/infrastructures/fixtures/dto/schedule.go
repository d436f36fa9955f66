package dto

type ScheduleFile struct {
	Matches []MatchRecord `yaml:"matches"`
}

type MatchRecord struct {
	ID       string  `yaml:"id"`
	HomeTeam string  `yaml:"home_team"`
	AwayTeam string  `yaml:"away_team"`
	Date     string  `yaml:"date"`
	Stadium  string  `yaml:"stadium"`
	City     string  `yaml:"city"`
	State    string  `yaml:"state"`
	Lat      float64 `yaml:"lat"`
	Lng      float64 `yaml:"lng"`
}
