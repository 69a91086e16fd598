package quiz

import "quizGo/models"

// excelQuestions is the fixed Excel & Power BI question bank.
var excelQuestions = []models.Question{
	{
		ID:            1,
		Question:      "Which symbol is used to start a formula in Excel?",
		Options:       []string{"+", "-", "=", "@"},
		CorrectAnswer: 2,
	},
	{
		ID:            2,
		Question:      "Which of the following is a What-If Analysis tool in Excel?",
		Options:       []string{"Flash Fill", "Goal Seek", "Data Validation", "Power Query"},
		CorrectAnswer: 1,
	},
	{
		ID:            3,
		Question:      "To create a Pivot Table, you go to:",
		Options:       []string{"Insert → Pivot Table", "Home → Table → Pivot", "Data → Pivot Table", "View → Pivot"},
		CorrectAnswer: 0,
	},
	{
		ID:            4,
		Question:      "Which function adds values in a range?",
		Options:       []string{"TOTAL()", "SUM()", "ADD()", "PLUS()"},
		CorrectAnswer: 1,
	},
	{
		ID:            5,
		Question:      "Which function counts cells based on a condition?",
		Options:       []string{"COUNTIF", "SUMIF", "IFCOUNT", "COUNT"},
		CorrectAnswer: 0,
	},
	{
		ID:            6,
		Question:      "Power BI is mainly used for:",
		Options:       []string{"Data visualization and business intelligence", "Video editing", "Web development", "Database design only"},
		CorrectAnswer: 0,
	},
	{
		ID:            7,
		Question:      "Which of the following is NOT a data source in Power BI?",
		Options:       []string{"Excel", "SQL Server", "Photoshop", "Google Analytics"},
		CorrectAnswer: 2,
	},
	{
		ID:            8,
		Question:      "What does DAX stand for?",
		Options:       []string{"Data Analytics Execution", "Data Access Extension", "Dynamic Analysis Expressions", "Data Analysis Expressions"},
		CorrectAnswer: 3,
	},
	{
		ID:            9,
		Question:      "Which visualization is best suited to show trends over time?",
		Options:       []string{"Tree Map", "Line Chart", "Pie Chart", "Donut Chart"},
		CorrectAnswer: 1,
	},
	{
		ID:            10,
		Question:      "Which feature is used to share reports securely in Power BI?",
		Options:       []string{"Power BI Service", "Power BI Gateway", "Publish to Web", "Power BI Desktop"},
		CorrectAnswer: 0,
	},
	{
		ID:            11,
		Question:      "Power BI is developed by:",
		Options:       []string{"Microsoft", "Oracle", "IBM", "Google"},
		CorrectAnswer: 0,
	},
	{
		ID:            12,
		Question:      "Which option is used to get data into Power BI?",
		Options:       []string{"Home → Insert", "Home → Get Data", "File → Export", "View → Data"},
		CorrectAnswer: 1,
	},
	{
		ID:            13,
		Question:      "In Power BI, which view is used to create relationships between tables?",
		Options:       []string{"Query View", "Data View", "Model View", "Report View"},
		CorrectAnswer: 2,
	},
	{
		ID:            14,
		Question:      "Power BI dashboards can have data from:",
		Options:       []string{"Excel only", "Multiple reports and datasets", "SQL Server only", "A single report only"},
		CorrectAnswer: 1,
	},
	{
		ID:            15,
		Question:      "Which option is used to replace incorrect or missing values in Power Query?",
		Options:       []string{"Replace Values", "Remove Values", "Fill Down", "Group By"},
		CorrectAnswer: 0,
	},
	{
		ID:            16,
		Question:      "Which option is used to transpose data (convert rows to columns)?",
		Options:       []string{"Pivot Column", "Transpose", "Unpivot Columns", "Group By"},
		CorrectAnswer: 1,
	},
	{
		ID:            17,
		Question:      "Which option is commonly used to rename a column in Power Query?",
		Options:       []string{"Right-click the column → Rename", "Transform → Format → Rename Columns", "Home → Manage Columns → Change Name", "Data → Rename Fields"},
		CorrectAnswer: 0,
	},
	{
		ID:            18,
		Question:      "What happens if you choose “Split Column → By Positions”?",
		Options:       []string{"The column is split based on character positions you specify", "The column is split at each space", "The column is duplicated", "The column is split into equal parts automatically"},
		CorrectAnswer: 0,
	},
	{
		ID:            19,
		Question:      "When you duplicate a column, the new column will contain:",
		Options:       []string{"The exact same values as the original column", "Only headers", "Blank values", "Random numbers"},
		CorrectAnswer: 0,
	},
	{
		ID:            20,
		Question:      "Which formula is correct for conditional sum with multiple criteria?",
		Options:       []string{"SUMIF", "COUNTIF", "SUMIFS", "AVERAGE"},
		CorrectAnswer: 2,
	},
	{
		ID:            21,
		Question:      "HLOOKUP works by searching:",
		Options:       []string{"In columns (vertically)", "In rows (horizontally)", "In both rows and columns", "In pivot tables"},
		CorrectAnswer: 1,
	},
	{
		ID:            22,
		Question:      "The fourth argument in VLOOKUP [range_lookup] is used to:",
		Options:       []string{"Decide column number", "Choose exact or approximate match", "Select row number", "Sort the data"},
		CorrectAnswer: 1,
	},
	{
		ID:            23,
		Question:      "In VLOOKUP, the function searches for the value in which direction?",
		Options:       []string{"Horizontal (across a row)", "Vertical (down a column)", "Both directions", "Random"},
		CorrectAnswer: 1,
	},
	{
		ID:            24,
		Question:      "The function =COUNTIF(A1:A10,\"Apple\") will:",
		Options:       []string{"Count all cells containing “Apple”", "Add all cells where “Apple” exists", "Return length of word Apple", "Show error"},
		CorrectAnswer: 0,
	},
	{
		ID:            25,
		Question:      "To sum sales where Product = \"Pen\" and Region = \"North\", which formula is correct?",
		Options:       []string{"=SUM(A1:A10,\"Pen\")", "=SUMIFS(C1:C10,A1:A10,\"Pen\",B1:B10,\"North\")", "=SUMIF(A1:A10,\"Pen\",B1:B10)", "=SUMIF(C1:C10,\"North\")"},
		CorrectAnswer: 1,
	},
}

// Questions returns a copy of the question bank.
func Questions() []models.Question {
	out := make([]models.Question, len(excelQuestions))
	copy(out, excelQuestions)
	return out
}
