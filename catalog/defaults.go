package catalog

// Default returns the built-in loan product table. A YAML catalog file can
// replace it wholesale via LoadFile.
func Default() *Registry {
	reg, err := NewRegistry(defaultTypes)
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return reg
}

var defaultTypes = []LoanType{
	{
		Name:        "gold_loan",
		DisplayName: "Gold Loan",
		RequiredDocuments: []string{
			"Valid ID Proof (Aadhaar/PAN/Passport)",
			"Gold items for assessment",
			"Address Proof",
		},
		RequiredFields: []string{
			"full_name",
			"phone_number",
			"email",
			"address",
			"gold_weight_grams",
			"gold_purity_carats",
			"loan_amount_required",
		},
	},
	{
		Name:        "two_wheeler_loan",
		DisplayName: "Two Wheeler Loan",
		RequiredDocuments: []string{
			"Valid ID Proof (Aadhaar/PAN/Passport)",
			"Income Proof (Salary Slips/Bank Statements - Last 3 months)",
			"Address Proof",
			"Employment Proof",
		},
		RequiredFields: []string{
			"full_name",
			"phone_number",
			"email",
			"address",
			"date_of_birth",
			"employment_type",
			"monthly_income",
			"vehicle_model",
			"vehicle_price",
			"down_payment",
			"loan_tenure_months",
		},
	},
	{
		Name:        "personal_loan",
		DisplayName: "Personal Loan",
		RequiredDocuments: []string{
			"Valid ID Proof (Aadhaar/PAN/Passport)",
			"Income Proof (Salary Slips/Bank Statements - Last 6 months)",
			"Address Proof",
			"Employment Proof",
			"Credit Score Report (if available)",
		},
		RequiredFields: []string{
			"full_name",
			"phone_number",
			"email",
			"address",
			"date_of_birth",
			"pan_number",
			"employment_type",
			"employer_name",
			"monthly_income",
			"existing_loans",
			"loan_amount_required",
			"loan_tenure_months",
			"purpose_of_loan",
		},
	},
	{
		Name:        "home_loan",
		DisplayName: "Home Loan",
		RequiredDocuments: []string{
			"Valid ID Proof (Aadhaar/PAN/Passport)",
			"Income Proof (Salary Slips/ITR - Last 2 years)",
			"Bank Statements (Last 6 months)",
			"Property Documents",
			"Sale Agreement",
			"Address Proof",
			"Employment Proof",
		},
		RequiredFields: []string{
			"full_name",
			"phone_number",
			"email",
			"current_address",
			"date_of_birth",
			"pan_number",
			"employment_type",
			"employer_name",
			"monthly_income",
			"existing_loans",
			"property_value",
			"loan_amount_required",
			"loan_tenure_years",
			"property_address",
			"property_type",
			"co_applicant_details",
		},
	},
	{
		Name:        "car_loan",
		DisplayName: "Car Loan",
		RequiredDocuments: []string{
			"Valid ID Proof (Aadhaar/PAN/Passport)",
			"Income Proof (Salary Slips/Bank Statements - Last 3 months)",
			"Address Proof",
			"Employment Proof",
			"Vehicle Quotation/Pro-forma Invoice",
		},
		RequiredFields: []string{
			"full_name",
			"phone_number",
			"email",
			"address",
			"date_of_birth",
			"pan_number",
			"employment_type",
			"monthly_income",
			"vehicle_make",
			"vehicle_model",
			"vehicle_price",
			"down_payment",
			"loan_tenure_months",
		},
	},
	{
		Name:        "business_loan",
		DisplayName: "Business Loan",
		RequiredDocuments: []string{
			"Valid ID Proof (Aadhaar/PAN/Passport)",
			"Business Registration Documents",
			"GST Registration Certificate",
			"ITR (Last 2 years)",
			"Bank Statements (Last 6 months - Business Account)",
			"Business Address Proof",
			"Financial Statements (Balance Sheet, P&L)",
		},
		RequiredFields: []string{
			"full_name",
			"phone_number",
			"email",
			"business_name",
			"business_type",
			"business_address",
			"years_in_business",
			"gst_number",
			"pan_number",
			"annual_turnover",
			"monthly_profit",
			"loan_amount_required",
			"loan_tenure_months",
			"purpose_of_loan",
		},
	},
	{
		Name:        "student_loan",
		DisplayName: "Student Loan",
		RequiredDocuments: []string{
			"Valid ID Proof (Aadhaar/Student ID)",
			"Resume/CV",
			"Academic Transcripts/Grade Reports",
			"College Admission Letter (if applicable)",
			"Parent/Guardian Income Proof (if co-applicant)",
		},
		RequiredFields: []string{
			"full_name",
			"phone_number",
			"email",
			"college_name",
			"course_name",
			"year_of_study",
			"gpa_cgpa",
			"number_of_hackathons_participated",
			"number_of_projects",
			"technical_skills",
			"internship_experience",
			"github_profile",
			"loan_amount_required",
			"purpose_of_loan",
		},
	},
}
