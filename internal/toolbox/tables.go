package toolbox

import (
	"strconv"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// pointFormats maps the plain point format drop-down. Older dialogs label
// the ASCII format "xyz", newer ones "txt"; both select -otxt.
var pointFormats = map[string][]string{
	"las":   {"-olas"},
	"laz":   {"-olaz"},
	"bin":   {"-obin"},
	"xyz":   {"-otxt"},
	"txt":   {"-otxt"},
	"xyzi":  {"-otxt", "-oparse", "xyzi"},
	"txyzi": {"-otxt", "-oparse", "txyzi"},
}

// classifiedFormats maps the point format drop-down of tools whose output
// carries a classification worth keeping in ASCII output.
var classifiedFormats = map[string][]string{
	"las":    {"-olas"},
	"laz":    {"-olaz"},
	"bin":    {"-obin"},
	"xyzc":   {"-otxt", "-oparse", "xyzc"},
	"xyzci":  {"-otxt", "-oparse", "xyzci"},
	"txyzc":  {"-otxt", "-oparse", "txyzc"},
	"txyzci": {"-otxt", "-oparse", "txyzci"},
}

// keepClassFilter returns the ground-filter drop-down table. groundLabel
// is the wording of the first entry, which differs between dialogs
// ("ground points only" or "only ground points"). Tools that triangulate
// the kept points need a second pass over the input, signalled with
// -extra_pass.
func keepClassFilter(groundLabel string, extraPass bool) map[string][]string {
	table := map[string][]string{
		groundLabel:             {"-keep_class", "2"},
		"ground and keypoints":  {"-keep_class", "2", "8"},
		"ground and buildings":  {"-keep_class", "2", "6"},
		"ground and vegetation": {"-keep_class", "2", "3", "4", "5"},
		"ground and objects":    {"-keep_class", "2", "3", "4", "5", "6"},
		"last return only":      {"-last_only"},
		"first return only":     {"-first_only"},
	}
	if extraPass {
		for label, tokens := range table {
			table[label] = append(tokens, "-extra_pass")
		}
	}
	return table
}

// boundaryFilter is the class filter of the boundary tool, which keeps
// single classes rather than ground combinations.
var boundaryFilter = map[string][]string{
	"ground points only": {"-keep_class", "2"},
	"vegetation":         {"-keep_class", "3", "4", "5"},
	"buildings":          {"-keep_class", "6"},
	"keypoints":          {"-keep_class", "8"},
	"water":              {"-keep_class", "9"},
	"overlap points":     {"-keep_class", "12"},
}

// lightDirections maps the hillshade light direction drop-down to the
// x and y components of the light vector.
var lightDirections = map[string][]string{
	"north":      {"0", "1.41421"},
	"south":      {"0", "-1.41421"},
	"east":       {"1.41421", "0"},
	"west":       {"-1.41421", "0"},
	"north east": {"1", "1"},
	"south east": {"1", "-1"},
	"north west": {"-1", "1"},
	"south west": {"-1", "-1"},
}

// lightTimes maps the time-of-day drop-down to the z component of the
// light vector. A lower sun means a flatter light.
var lightTimes = map[string]string{
	"noon": "100",
	"1 pm": "2",
	"3 pm": "1",
	"6 pm": "0.5",
	"9 pm": "0.1",
}

const (
	defaultLightDirection = "north east"
	defaultLightTime      = "1 pm"
)

// classifications maps the ASPRS classification labels of the dialogs to
// their numeric codes.
var classifications = map[string]string{
	"created, never classified (0)": "0",
	"unclassified (1)":              "1",
	"ground (2)":                    "2",
	"low vegetation (3)":            "3",
	"medium vegetation (4)":         "4",
	"high vegetation (5)":           "5",
	"building (6)":                  "6",
	"low point (7)":                 "7",
	"keypoint (8)":                  "8",
	"water (9)":                     "9",
	"high point (10)":               "10",
	"(11)":                          "11",
	"overlap point (12)":            "12",
	"(13)":                          "13",
	"(14)":                          "14",
	"(15)":                          "15",
	"(16)":                          "16",
	"(17)":                          "17",
	"(18)":                          "18",
}

// Classification returns the numeric code of a classification label.
// Bare codes 0-255 are accepted as they are.
func Classification(label string) (string, bool) {
	if code, ok := classifications[label]; ok {
		return code, true
	}
	if n, err := strconv.Atoi(label); err == nil && n >= 0 && n <= 255 {
		return label, true
	}
	return "", false
}

// classificationCode is Classification with an argument error naming
// the parameter.
func classificationCode(param, label string) (string, error) {
	code, ok := Classification(label)
	if !ok {
		return "", model.ArgumentError("parameter %s: unknown classification %q", param, label)
	}
	return code, nil
}

// groundTerrain maps the terrain drop-down of the ground classifier.
var groundTerrain = map[string][]string{
	"wilderness":         {"-wilderness"},
	"city or warehouses": {"-city"},
	"towns or flats":     {"-town"},
	"metropolis":         {"-metro"},
}

// groundGranularity maps the granularity drop-down of the ground
// classifier. "coarse" is the LAStools default and emits nothing.
var groundGranularity = map[string][]string{
	"fine":       {"-fine"},
	"extra fine": {"-extra_fine"},
	"ultra fine": {"-ultra_fine"},
}

// pipelineTerrain couples terrain type and granularity the way the
// flightline pipelines do.
var pipelineTerrain = map[string][]string{
	"wilderness":         {"-wilderness"},
	"city or warehouses": {"-city", "-extra_fine"},
	"towns or flats":     {"-town", "-fine"},
	"metropolis":         {"-metro", "-ultra_fine"},
}

// PipelineTerrain returns the ground classifier tokens for a pipeline
// terrain label.
func PipelineTerrain(label string) []model.Token {
	return model.Flags(pipelineTerrain[label]...)
}

// PointFormatTokens returns the tokens of a classified point format
// label, for pipelines that end in a point-cloud output.
func PointFormatTokens(label string) []model.Token {
	return model.Flags(classifiedFormats[label]...)
}

// viewSelections maps the "which points" drop-down of the viewer.
var viewSelections = map[string][]string{
	"first returns":         {"-only_first"},
	"last returns":          {"-only_last"},
	"multi returns":         {"-only_multi"},
	"single returns":        {"-only_single"},
	"ground":                {"-ground"},
	"buildings":             {"-buildings"},
	"vegetation":            {"-vegetation"},
	"objects":               {"-objects"},
	"ground and buildings":  {"-ground_buildings"},
	"ground and vegetation": {"-ground_vegetation"},
	"ground and objects":    {"-ground_objects"},
}

// viewColorings maps the coloring drop-down of the viewer.
var viewColorings = map[string][]string{
	"elevation ramp 1": {"-color_by_elevation1"},
	"elevation ramp 2": {"-color_by_elevation2"},
	"classification":   {"-color_by_classification"},
	"rgb":              {"-color_by_rgb"},
	"flight line":      {"-color_by_flight_line"},
	"intensity":        {"-color_by_intensity"},
	"number returns":   {"-color_by_returns"},
}

// splitModes maps the split mode drop-down to its flag and whether the
// flag is followed by the interval or chunk size.
var splitModes = map[string]struct {
	flag      string
	takesSize bool
}{
	"split into chunks of points":  {"-split", true},
	"split by classification":      {"-by_classification", false},
	"split by GPS time interval":   {"-by_gps_time_interval", true},
	"split by intensity interval":  {"-by_intensity_interval", true},
	"split x interval":             {"-by_x_interval", true},
	"split y interval":             {"-by_y_interval", true},
	"split z interval":             {"-by_z_interval", true},
	"split by user data interval":  {"-by_user_data_interval", true},
	"split by scan angle interval": {"-by_scan_angle_interval", true},
}
