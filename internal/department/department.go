package department

import (
	"context"

	departmentDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/department"
)

type Department struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Repository interface {
	List(ctx context.Context) ([]*Department, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, d *Department) error
}

// Defaults is the catalogue seeded into an empty table.
func Defaults() []*Department {
	return []*Department{
		{Title: "الدوريات", Description: "حفظ الأمن والاستجابة للبلاغات.", Icon: "Shield"},
		{Title: "التحقيقات", Description: "متابعة القضايا وجمع الأدلة.", Icon: "FileText"},
		{Title: "المرور", Description: "تنظيم السير والحوادث.", Icon: "AlertTriangle"},
		{Title: "الأكاديمية", Description: "تدريب وتأهيل الأفراد الجدد.", Icon: "GraduationCap"},
		{Title: "الشؤون", Description: "الإدارة والملفات والموارد.", Icon: "Briefcase"},
	}
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Icon:        d.Icon,
	}
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Icon:        d.Icon,
	}
}
