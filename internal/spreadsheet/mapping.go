package spreadsheet

import (
	"github.com/scholartrack/registrar-backend/internal/model"
)

// StudentFromRecord maps a validated record's external column names onto a
// student entity. Import sheets carry no scholarship column; that field
// stays empty until edited.
func StudentFromRecord(rec Record) model.Student {
	return model.Student{
		StudentID:     rec.Fields["STUDENT NUMBER"],
		LastName:      rec.Fields["LAST NAME"],
		FirstName:     rec.Fields["GIVEN NAME"],
		MiddleName:    optString(rec.Fields["MIDDLE NAME"]),
		Course:        rec.Fields["COURSE"],
		College:       rec.Fields["COLLEGE"],
		Campus:        rec.Fields["CAMPUS"],
		YearLevel:     rec.Fields["YEAR LEVEL"],
		Gender:        rec.Fields["GENDER"],
		Birthday:      rec.Fields["DATE OF BIRTH"],
		BirthPlace:    rec.Fields["PLACE OF BIRTH"],
		CompAddress:   optString(rec.Fields["COMPLETE ADDRESS"]),
		Barangay:      rec.Fields["BARANGAY"],
		Town:          rec.Fields["TOWN/CITY"],
		Province:      rec.Fields["Province"],
		Email:         rec.Fields["Email"],
		Number:        rec.Fields["MobileNo."],
		FatherName:    rec.Fields["FatherName"],
		FatherOccup:   rec.Fields["Father_Occupation"],
		MotherName:    rec.Fields["MotherName"],
		MotherOccup:   rec.Fields["Mother_Occupation"],
		StudentStatus: rec.Fields["Student_Status"],
		LastSem:       optString(rec.Fields["Last sem of enrolment for inactive"]),
		Section:       rec.Fields["Section"],
		Approved:      rec.Fields["Approved to share the information"],
	}
}

// studentCell renders the export cell for one external column.
func studentCell(s model.Student, header string) string {
	switch header {
	case "STUDENT NUMBER":
		return s.StudentID
	case "LAST NAME":
		return s.LastName
	case "GIVEN NAME":
		return s.FirstName
	case "MIDDLE NAME":
		return deref(s.MiddleName)
	case "COURSE":
		return s.Course
	case "COLLEGE":
		return s.College
	case "CAMPUS":
		return s.Campus
	case "YEAR LEVEL":
		return s.YearLevel
	case "GENDER":
		return s.Gender
	case "DATE OF BIRTH":
		return s.Birthday
	case "PLACE OF BIRTH":
		return s.BirthPlace
	case "COMPLETE ADDRESS":
		return deref(s.CompAddress)
	case "BARANGAY":
		return s.Barangay
	case "TOWN/CITY":
		return s.Town
	case "Province":
		return s.Province
	case "Email":
		return s.Email
	case "MobileNo.":
		return s.Number
	case "FatherName":
		return s.FatherName
	case "Father_Occupation":
		return s.FatherOccup
	case "MotherName":
		return s.MotherName
	case "Mother_Occupation":
		return s.MotherOccup
	case "Student_Status":
		return s.StudentStatus
	case "Last sem of enrolment for inactive":
		return deref(s.LastSem)
	case "Section":
		return s.Section
	case "Approved to share the information":
		return s.Approved
	}
	return ""
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
