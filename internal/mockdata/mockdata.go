// Package mockdata serves the static fixtures behind the analytics
// dashboard, the admin panel and the settings page.
package mockdata

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed mock.yaml
var embedded []byte

type Data struct {
	Analytics Analytics `yaml:"analytics" json:"analytics"`
	Admin     Admin     `yaml:"admin" json:"admin"`
	Settings  Settings  `yaml:"settings" json:"settings"`
}

type Analytics struct {
	Stats            []Stat         `yaml:"stats" json:"stats"`
	QueryVolume      []DailyQueries `yaml:"query_volume" json:"query_volume"`
	ResponseTimes    []ResponseTime `yaml:"response_times" json:"response_times"`
	RoleDistribution []RoleShare    `yaml:"role_distribution" json:"role_distribution"`
}

type Stat struct {
	Title  string `yaml:"title" json:"title"`
	Value  string `yaml:"value" json:"value"`
	Change string `yaml:"change" json:"change"`
}

type DailyQueries struct {
	Name    string `yaml:"name" json:"name"`
	Queries int    `yaml:"queries" json:"queries"`
}

type ResponseTime struct {
	Name    string  `yaml:"name" json:"name"`
	Seconds float64 `yaml:"seconds" json:"time"`
}

type RoleShare struct {
	Name  string `yaml:"name" json:"name"`
	Value int    `yaml:"value" json:"value"`
	Color string `yaml:"color" json:"color"`
}

type Admin struct {
	Datasets     []Dataset     `yaml:"datasets" json:"datasets"`
	Users        []ManagedUser `yaml:"users" json:"users"`
	ActivityLogs []ActivityLog `yaml:"activity_logs" json:"activity_logs"`
}

// Dataset describes an uploaded source. Only one of Records, Pages and
// Files is set, depending on Type.
type Dataset struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Size     string `yaml:"size" json:"size"`
	Uploaded string `yaml:"uploaded" json:"uploaded"`
	Records  int    `yaml:"records,omitempty" json:"records,omitempty"`
	Pages    int    `yaml:"pages,omitempty" json:"pages,omitempty"`
	Files    int    `yaml:"files,omitempty" json:"files,omitempty"`
}

type ManagedUser struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Email      string `yaml:"email" json:"email"`
	Role       string `yaml:"role" json:"role"`
	LastActive string `yaml:"last_active" json:"last_active"`
	Queries    int    `yaml:"queries" json:"queries"`
}

// ActivityLog Type is one of success, error, warning or info.
type ActivityLog struct {
	Time   string `yaml:"time" json:"time"`
	User   string `yaml:"user" json:"user"`
	Action string `yaml:"action" json:"action"`
	Query  string `yaml:"query" json:"query"`
	Type   string `yaml:"type" json:"type"`
}

type Settings struct {
	Sections []SettingsSection `yaml:"sections" json:"sections"`
}

type SettingsSection struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Default returns the fixtures compiled into the binary.
func Default() (*Data, error) {
	return parse(embedded)
}

// Load reads fixtures from path, or the embedded copy when path is empty.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock data %s: %w", path, err)
	}
	return parse(b)
}

func parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to parse mock data: %w", err)
	}
	return &d, nil
}
