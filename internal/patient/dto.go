package patient

type ListQuery struct {
	Search string
	Limit  int
	Offset int
}

func (q *ListQuery) Normalize() {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

type PatientsResponse struct {
	Patients []*Patient `json:"patients"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
