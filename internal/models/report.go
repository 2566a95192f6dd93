package models

import "github.com/shopspring/decimal"

// Stats is the admin overview derived from users, courses and enrollments.
type Stats struct {
	TotalUsers        int             `json:"totalUsers"`
	TotalCourses      int             `json:"totalCourses"`
	TotalEnrollments  int             `json:"totalEnrollments"`
	Students          int             `json:"students"`
	Admins            int             `json:"admins"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	RecentEnrollments []Enrollment    `json:"recentEnrollments"`
	PopularCourses    []PopularCourse `json:"popularCourses"`
}

type PopularCourse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Students int             `json:"students"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type ActivityDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
