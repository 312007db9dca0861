package communityalert

import "agri-report-workers/internal/models"

var riskPeriods = map[string]string{
	"late_blight":      "Late summer to early fall",
	"powdery_mildew":   "Spring to summer",
	"rust":             "Spring and fall",
	"bacterial_blight": "Warm, wet periods",
}

var symptoms = map[string][]string{
	"late_blight":      {"Dark lesions on leaves", "White fungal growth", "Rapid plant death"},
	"powdery_mildew":   {"White powdery spots", "Leaf curling", "Stunted growth"},
	"rust":             {"Orange/brown pustules", "Leaf spots", "Premature defoliation"},
	"bacterial_blight": {"Water-soaked lesions", "Wilting", "Bacterial ooze"},
}

var transmission = map[string]string{
	"late_blight":      "Wind, water, infected plant debris",
	"powdery_mildew":   "Wind, direct contact",
	"rust":             "Wind, insects, contaminated tools",
	"bacterial_blight": "Water, insects, contaminated equipment",
}

var preventionMeasures = map[string][]string{
	"late_blight":    {"Remove infected plant debris", "Apply copper-based fungicides", "Avoid overhead irrigation"},
	"powdery_mildew": {"Improve air circulation", "Apply sulfur-based treatments", "Remove infected leaves"},
	"rust":           {"Apply fungicides at first sign", "Remove alternate hosts", "Use resistant varieties"},
}

var immediateActionsByLevel = map[models.Level][]string{
	models.LevelCritical: {
		"Issue emergency alert to all farmers in radius",
		"Deploy rapid response team",
		"Implement quarantine measures",
		"Contact agricultural authorities",
	},
	models.LevelHigh: {
		"Send priority notifications",
		"Increase monitoring frequency",
		"Prepare response resources",
	},
	models.LevelMedium: {
		"Send standard alerts",
		"Monitor situation closely",
	},
	models.LevelLow: {
		"Send informational alerts",
		"Continue routine monitoring",
	},
}

var shortTermActions = []string{
	"Distribute treatment recommendations",
	"Organize farmer education sessions",
	"Coordinate with local agricultural experts",
	"Monitor treatment effectiveness",
}

var longTermActions = []string{
	"Develop disease-resistant crop varieties",
	"Implement integrated pest management",
	"Improve early detection systems",
	"Establish regional monitoring networks",
}

var dataSources = []string{"Weather APIs", "Agricultural Databases", "Historical Records"}
