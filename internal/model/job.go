package model

import "time"

// RawRecord is one row as read from an import source, before validation.
// Keys are lower-cased column names.
type RawRecord map[string]interface{}

// Source is a file or URL to import from
type Source struct {
	Type string `json:"type" yaml:"type"` // json, csv or xlsx; guessed from Path when empty
	Path string `json:"path" yaml:"path"` // file path or http(s) URL
}

// ImportWorkers sets the number of workers per import stage
type ImportWorkers struct {
	Validation int `json:"validation" yaml:"validation"`
	Transform  int `json:"transform" yaml:"transform"`
}

// ImportJob describes one import run
type ImportJob struct {
	Sources           []Source      `json:"sources"`
	Workers           ImportWorkers `json:"workers"`
	ChannelBufferSize int           `json:"channelBufferSize"`
	BatchSize         int           `json:"batchSize"`
	Timeout           time.Duration `json:"timeout"`
}

// ImportResult summarises a finished import run
type ImportResult struct {
	JobID    string        `json:"job_id"`
	Read     int           `json:"read"`
	Stored   int           `json:"stored"`
	Rejected int           `json:"rejected"`
	Errors   []string      `json:"errors,omitempty"` // first rejections, for display
	Duration time.Duration `json:"duration"`
}
