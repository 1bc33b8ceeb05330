package model

// SourceDiaryEntry is a food diary row as stored in the source database.
type SourceDiaryEntry struct {
	ID              int64
	Date            string
	CatalogueItemID int64
	WeightGrams     float64
	History         string
	UserID          int64
}

// DiaryEntry is a food diary row ready for the target database.
type DiaryEntry struct {
	ID              int64
	Timestamp       int64
	DateISO         string
	CatalogueItemID int64
	WeightGrams     float64
	History         string
	UserID          int64
}

// SourceWeightEntry is a body weight sample as stored in the source database.
type SourceWeightEntry struct {
	ID     int64
	Date   string
	Weight float64
	UserID int64
}

// WeightEntry is a body weight sample ready for the target database.
type WeightEntry struct {
	ID        int64
	Timestamp int64
	DateISO   string
	Weight    float64
	UserID    int64
}
