package main

import (
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
)

type subjectGroup struct {
	names    []string
	band     models.LevelBand
	category models.SubjectCategory
	weights  [3]float64 // WW, PT, QA
	grades   [2]int
}

var subjectGroups = []subjectGroup{
	{
		names:    []string{"Filipino 7", "English 7", "Araling Panlipunan 7", "Edukasyon sa Pagpapakatao 7"},
		band:     models.LevelBandJHS,
		category: models.SubjectCategoryCore,
		weights:  [3]float64{0.30, 0.50, 0.20},
		grades:   [2]int{7, 10},
	},
	{
		names:    []string{"Mathematics 7", "Science 7", "Mathematics 10", "Science 10"},
		band:     models.LevelBandJHS,
		category: models.SubjectCategoryCore,
		weights:  [3]float64{0.40, 0.40, 0.20},
		grades:   [2]int{7, 10},
	},
	{
		names:    []string{"MAPEH 7", "TLE 7"},
		band:     models.LevelBandJHS,
		category: models.SubjectCategoryCore,
		weights:  [3]float64{0.20, 0.60, 0.20},
		grades:   [2]int{7, 10},
	},
	{
		names: []string{
			"Oral Communication",
			"Reading and Writing",
			"Komunikasyon at Pananaliksik",
			"General Mathematics",
			"Statistics and Probability",
			"Earth and Life Science",
			"Physical Education and Health",
			"Understanding Culture, Society, and Politics",
		},
		band:     models.LevelBandSHS,
		category: models.SubjectCategoryCore,
		weights:  [3]float64{0.25, 0.50, 0.25},
		grades:   [2]int{11, 12},
	},
	{
		names: []string{
			"Empowerment Technologies",
			"Entrepreneurship",
			"Practical Research 1",
			"Practical Research 2",
			"Inquiries, Investigations, and Immersion",
		},
		band:     models.LevelBandSHS,
		category: models.SubjectCategoryApplied,
		weights:  [3]float64{0.25, 0.45, 0.30},
		grades:   [2]int{11, 12},
	},
}

var defaultRooms = []service.RoomRequest{
	{Name: "Room 101"},
	{Name: "Room 102"},
	{Name: "Room 201"},
	{Name: "Science Lab"},
	{Name: "Computer Lab"},
}

func subjectCatalog() []service.SubjectRequest {
	var catalog []service.SubjectRequest
	for _, group := range subjectGroups {
		for _, name := range group.names {
			gmin, gmax := group.grades[0], group.grades[1]
			catalog = append(catalog, service.SubjectRequest{
				Name:      name,
				Category:  group.category,
				LevelBand: group.band,
				GradeMin:  &gmin,
				GradeMax:  &gmax,
				WeightWW:  group.weights[0],
				WeightPT:  group.weights[1],
				WeightQA:  group.weights[2],
			})
		}
	}
	return catalog
}
