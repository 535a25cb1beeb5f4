package model

import "time"

// ETLRun records one execution of the process pipeline.
type ETLRun struct {
	StartedAt      time.Time
	FinishedAt     time.Time
	ID             string
	MessagesPath   string
	CategoriesPath string
	Table          string
	Categories     []string
	JoinedRows     int
	DuplicateRows  int
	StoredRows     int
}

// TrainingRun records one fitted model artifact.
type TrainingRun struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	ID          string
	Table       string
	ModelPath   string
	BestParams  string
	TrainRows   int
	TestRows    int
	BestScore   float64
	SubsetScore float64
}
