package records

import (
	"time"

	"github.com/clinicdesk/platform/pkg/common/models"
)

// Seed loads the demo dataset into a MemoryStore. Used when the service runs
// with STORE_BACKEND=memory and SEED_DEMO_DATA=true.
func Seed(store *MemoryStore) {
	now := time.Now().UTC()
	todayStr := today(now)

	patients := []models.Patient{
		{
			ID: "p1", Name: "Liam Gallagher",
			AvatarURL: "https://picsum.photos/id/1005/200/200", LastVisit: "2023-10-15",
			Demographics: &models.Demographics{DOB: "1972-09-21", Gender: models.GenderMale, Contact: "(555) 123-4567", Address: "123 Wonderwall Lane, Manchester, UK", EmergencyContact: "(555) 111-2222"},
			Insurance:    []models.Insurance{{Provider: "State Health Plan", PolicyNumber: "UK987654", GroupNumber: "GRP-A1", IsPrimary: true}},
			IoTData:      &models.IoTSnapshot{HeartRate: 72, Steps: 8021},
			CreatedAt:    now,
		},
		{
			ID: "p2", Name: "Noel Gallagher",
			AvatarURL: "https://picsum.photos/id/1006/200/200", LastVisit: "2023-11-01",
			Demographics: &models.Demographics{DOB: "1967-05-29", Gender: models.GenderMale, Contact: "(555) 987-6543", Address: "456 Champagne Ave, Manchester, UK", EmergencyContact: "(555) 333-4444"},
			Insurance:    []models.Insurance{{Provider: "Musicians Union Health", PolicyNumber: "MU123456", GroupNumber: "GRP-B2", IsPrimary: true}},
			IoTData:      &models.IoTSnapshot{HeartRate: 68, Steps: 6543},
			CreatedAt:    now,
		},
		{
			ID: "p3", Name: "Emily White",
			AvatarURL: "https://picsum.photos/id/1011/200/200", LastVisit: "2023-09-22",
			Demographics: &models.Demographics{DOB: "1990-03-12", Gender: models.GenderFemale, Contact: "(555) 345-6789", Address: "789 Skyline Dr, Austin, TX", EmergencyContact: "(555) 555-6666"},
			Insurance:    []models.Insurance{{Provider: "Blue Cross Shield", PolicyNumber: "BCBS-TX-998877", GroupNumber: "BCBSTX-LgEmp", IsPrimary: true}},
			IoTData:      &models.IoTSnapshot{HeartRate: 65, Steps: 10234},
			CreatedAt:    now,
		},
		{
			ID: "p4", Name: "David Chen",
			AvatarURL: "https://picsum.photos/id/1012/200/200", LastVisit: "2023-11-10",
			Demographics: &models.Demographics{DOB: "1985-07-24", Gender: models.GenderMale, Contact: "(555) 234-5678", Address: "101 Maple St, Toronto, CA", EmergencyContact: "(555) 777-8888"},
			Insurance:    []models.Insurance{{Provider: "Sun Life Financial", PolicyNumber: "SLF-456123", GroupNumber: "GRP-C3", IsPrimary: true}},
			IoTData:      &models.IoTSnapshot{HeartRate: 75, Steps: 4321},
			CreatedAt:    now,
		},
		{
			ID: "p5", Name: "Olivia Rodriguez",
			AvatarURL: "https://picsum.photos/id/1027/200/200", LastVisit: "2024-01-05",
			Demographics: &models.Demographics{DOB: "2001-11-30", Gender: models.GenderFemale, Contact: "(555) 111-3333", Address: "222 Ocean Blvd, Los Angeles, CA", EmergencyContact: "(555) 222-4444"},
			Insurance:    []models.Insurance{{Provider: "Aetna", PolicyNumber: "AE-555-777", GroupNumber: "GRP-D4", IsPrimary: true}},
			CreatedAt:    now,
		},
	}
	for _, patient := range patients {
		store.PutPatient(patient)
	}

	store.PutAppointment(models.Appointment{ID: "a1", Patient: patients[0], Doctor: "Dr. Anya Sharma", Date: todayStr, Time: "10:00 AM", Reason: "Annual Checkup", Status: models.AppointmentScheduled, CreatedAt: now})
	store.PutAppointment(models.Appointment{ID: "a2", Patient: patients[2], Doctor: "Dr. Ben Carter", Date: todayStr, Time: "11:30 AM", Reason: "Follow-up", Status: models.AppointmentScheduled, CreatedAt: now})
	store.PutAppointment(models.Appointment{ID: "a3", Patient: patients[1], Doctor: "Dr. Anya Sharma", Date: "2024-07-28", Time: "02:00 PM", Reason: "Consultation", Status: models.AppointmentCompleted, CreatedAt: now})
	store.PutAppointment(models.Appointment{ID: "a4", Patient: patients[3], Doctor: "Dr. Chloe Davis", Date: "2024-07-25", Time: "09:00 AM", Reason: "Dental Cleaning", Status: models.AppointmentCancelled, CreatedAt: now})

	store.PutPrescription(models.Prescription{ID: "pr1", Patient: patients[0], Medication: "Lisinopril", Dosage: "10mg", Frequency: "Once daily", StartDate: "2023-10-15", EndDate: "2024-10-15", Active: true, Refills: 3, Pharmacy: "CVS Pharmacy", CreatedAt: now})
	store.PutPrescription(models.Prescription{ID: "pr2", Patient: patients[2], Medication: "Amoxicillin", Dosage: "500mg", Frequency: "Twice daily", StartDate: "2023-09-22", EndDate: "2023-10-02", Active: false, Refills: 0, Pharmacy: "Walgreens", CreatedAt: now})
	store.PutPrescription(models.Prescription{ID: "pr3", Patient: patients[3], Medication: "Metformin", Dosage: "1000mg", Frequency: "Once daily", StartDate: "2023-11-10", EndDate: "2024-11-10", Active: true, Refills: 6, Pharmacy: "Walmart Pharmacy", CreatedAt: now})

	store.PutBillingClaim(models.BillingClaim{ID: "clm001", PatientID: "p1", DateOfService: "2023-10-15", Amount: 250.00, Status: models.ClaimApproved, Details: "Annual Physical"})
	store.PutBillingClaim(models.BillingClaim{ID: "clm002", PatientID: "p2", DateOfService: "2024-07-28", Amount: 150.00, Status: models.ClaimSubmitted, Details: "Specialist Consultation"})
	store.PutBillingClaim(models.BillingClaim{ID: "clm003", PatientID: "p3", DateOfService: "2023-09-22", Amount: 120.00, Status: models.ClaimApproved, Details: "Follow-up Visit"})
	store.PutBillingClaim(models.BillingClaim{ID: "clm004", PatientID: "p4", DateOfService: "2023-11-10", Amount: 350.00, Status: models.ClaimPending, Details: "New Patient Visit & Bloodwork"})

	store.PutTask(models.Task{ID: "t1", UserID: "demo", Text: "Review Liam G's recent lab results", Completed: false, CreatedAt: now})
	store.PutTask(models.Task{ID: "t2", UserID: "demo", Text: "Follow up with Emily W about medication adjustment", Completed: false, CreatedAt: now})
	store.PutTask(models.Task{ID: "t3", UserID: "demo", Text: "Sign off on patient charts from yesterday", Completed: true, CreatedAt: now})

	store.PutEHR(models.EHR{
		PatientID:      "p1",
		MedicalHistory: []string{"Hypertension"},
		Allergies:      []string{"Penicillin"},
		Diagnoses:      []models.Diagnosis{{ID: "d1", Date: "2023-10-15", Code: "I10", Description: "Essential hypertension", IsChronic: true}},
		Medications:    []models.Medication{{ID: "m1", Name: "Lisinopril", Dosage: "10mg", Frequency: "Once daily", StartDate: "2023-10-15"}},
		Immunizations:  []models.Immunization{{ID: "im1", Date: "2022-09-01", Vaccine: "Influenza", Administrator: "Dr. Sharma"}},
		Notes:          []models.ClinicalNote{{ID: "n1", Date: "2023-10-15", Author: "Dr. Sharma", Note: "Patient presented with high blood pressure. Prescribed Lisinopril. Follow-up in 3 months."}},
	})
	store.PutEHR(models.EHR{
		PatientID:      "p3",
		MedicalHistory: []string{"Asthma"},
		Allergies:      []string{"None"},
		Diagnoses:      []models.Diagnosis{{ID: "d2", Date: "2023-09-22", Code: "J45", Description: "Asthma, unspecified", IsChronic: true}},
		Medications:    []models.Medication{{ID: "m2", Name: "Albuterol Inhaler", Dosage: "90mcg", Frequency: "As needed", StartDate: "2023-09-22"}},
		Immunizations:  []models.Immunization{{ID: "im2", Date: "2023-01-15", Vaccine: "Tetanus", Administrator: "Dr. Carter"}},
		Notes:          []models.ClinicalNote{{ID: "n2", Date: "2023-09-22", Author: "Dr. Carter", Note: "Patient reports seasonal asthma flare-ups. Refilled Albuterol."}},
	})

	store.PutLabResult(models.LabResult{ID: "lr1", PatientID: "p1", TestName: "Lipid Panel", Result: "Total Chol: 210 mg/dL", ReferenceRange: "<200 mg/dL", Date: "2023-10-15"})
	store.PutLabResult(models.LabResult{ID: "lr2", PatientID: "p3", TestName: "Complete Blood Count (CBC)", Result: "WBC: 5.5 x10^3/uL", ReferenceRange: "4.0-11.0", Date: "2023-09-22"})

	store.PutRadiologyImage(models.RadiologyImage{ID: "ri1", PatientID: "p2", Type: "X-Ray", BodyPart: "Left Hand", ImageURL: "https://picsum.photos/seed/xray1/800/600", Date: "2023-08-10"})
}
