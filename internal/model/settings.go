package model

// SettingsRecord holds per-user food settings. SelectedCatalogueIDs lists the
// catalogue items the user may pick from.
type SettingsRecord struct {
	UserID               int64
	SelectedCatalogueIDs []int64
	Coefficients         *string
	UpToDate             bool
	Stats                *string
}
