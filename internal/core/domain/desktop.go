package domain

// Desktop is a named virtual workspace. Windows are partitioned by desktop id
// and exactly one desktop is visible at a time.
type Desktop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
