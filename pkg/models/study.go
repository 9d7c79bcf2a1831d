package models

// Study is an externally sourced Windham Packaging research study. Studies
// are not owned by a commodity; StudyCommodityLink relates the two.
type Study struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	// Date is formatted YYYY-MM-DD.
	Date      *string `json:"date"`
	Source    *string `json:"source"`
	Objective *string `json:"objective"`
}

// StudyCommodityLink is one row of the study/commodity many-to-many relation.
type StudyCommodityLink struct {
	CommodityID string `json:"commodityId"`
	StudyID     int64  `json:"studyId"`
}

// StudyDateLayout is the wire and storage format of Study.Date.
const StudyDateLayout = "2006-01-02"
