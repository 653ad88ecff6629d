package models

import (
	"TourShield/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate 建表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&SafetyAlert{},
		&SafetyTip{},
		&EmergencyContact{},
		&UserPreference{},
		&ChatMessage{},
	)
}

// Seed 写入演示数据，已存在提示数据时跳过
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&SafetyTip{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("seed skipped, data already present")
		return nil
	}

	tips := []SafetyTip{
		{Title: "Always Stay Alert in Crowded Areas", Content: "Keep your belongings secure and be aware of your surroundings, especially in tourist hotspots. Pickpockets often target distracted visitors.", Category: "General Safety", Priority: "high"},
		{Title: "Share Your Location with Trusted Contacts", Content: "Always inform family or friends about your travel plans and current location. Use location sharing features when exploring unfamiliar areas.", Category: "Communication", Priority: "high"},
		{Title: "Keep Emergency Numbers Handy", Content: "Save local emergency numbers, embassy contacts, and tourist helpline numbers in your phone. Know the universal emergency number (112) for most countries.", Category: "Emergency Prep", Priority: "critical"},
		{Title: "Research Local Safety Conditions", Content: "Before visiting any destination, research current safety conditions, common scams, and areas to avoid, especially during certain times of day.", Category: "Travel Planning", Priority: "medium"},
		{Title: "Avoid Displaying Expensive Items", Content: "Keep jewelry, expensive electronics, and large amounts of cash hidden. Use hotel safes for valuables and consider using a money belt.", Category: "General Safety", Priority: "high"},
		{Title: "Plan Your Return Route", Content: "Always have a plan for getting back to your accommodation safely, especially when going out at night. Know public transport schedules and taxi options.", Category: "Travel Planning", Priority: "medium"},
		{Title: "Stay Hydrated and Healthy", Content: "Carry water, avoid tap water in certain areas, and be cautious about street food. Know the location of nearby hospitals and clinics.", Category: "Health & Wellness", Priority: "medium"},
		{Title: "Use Reputable Transportation", Content: "Use licensed taxis, official ride-sharing apps, or reputable tour operators. Avoid unmarked vehicles or offers from strangers.", Category: "Transportation", Priority: "high"},
		{Title: "Keep Digital and Physical Copies", Content: "Make copies of your passport, ID, insurance, and important documents. Store them separately and keep digital copies in secure cloud storage.", Category: "Documentation", Priority: "critical"},
		{Title: "Trust Your Instincts", Content: "If a situation or person makes you feel uncomfortable, trust your gut feeling and remove yourself from the situation immediately.", Category: "General Safety", Priority: "critical"},
	}
	for i := range tips {
		if err := CreateSafetyTip(db, nil, &tips[i]); err != nil {
			return err
		}
	}

	alerts := []SafetyAlert{
		{Title: "Heavy Rainfall Expected in City Center", Message: "Monsoon rains expected to cause flooding in low-lying areas. Avoid travel near rivers and use covered transportation.", Severity: SeverityMedium, Location: "New Delhi City Center", Latitude: 28.6139, Longitude: 77.2090},
		{Title: "Avoid XYZ Street After 8 PM", Message: "Increased criminal activity reported after dark. Police patrols increased but visitors advised to use alternate routes.", Severity: SeverityHigh, Location: "XYZ Street, Tourist District", Latitude: 28.6165, Longitude: 77.2088},
		{Title: "Pickpocket Activity Near India Gate", Message: "Multiple reports of pickpocketing incidents near India Gate monument. Keep valuables secure and remain vigilant.", Severity: SeverityMedium, Location: "India Gate Area", Latitude: 28.6129, Longitude: 77.2295},
		{Title: "Road Construction - Traffic Delays", Message: "Major road construction causing significant delays on NH-44. Allow extra travel time and consider alternate routes.", Severity: SeverityLow, Location: "National Highway 44", Latitude: 28.5355, Longitude: 77.3910},
		{Title: "Tourist Scam Alert - Fake Police", Message: "Reports of criminals posing as police officers targeting tourists. Always ask for official identification and report suspicious behavior.", Severity: SeverityHigh, Location: "Connaught Place Area", Latitude: 28.6315, Longitude: 77.2167},
	}
	for i := range alerts {
		if err := CreateAlert(db, &alerts[i]); err != nil {
			return err
		}
	}

	contacts := []EmergencyContact{
		{Name: "Delhi Police Emergency", PhoneNumber: "100", Type: "police", Location: "New Delhi Police Headquarters", Latitude: 28.6139, Longitude: 77.2090},
		{Name: "All India Institute of Medical Sciences", PhoneNumber: "+91-11-26588500", Type: "hospital", Location: "AIIMS, Ansari Nagar", Latitude: 28.5672, Longitude: 77.2100},
		{Name: "Tourist Helpline Delhi", PhoneNumber: "1363", Type: "tourist_support", Location: "Delhi Tourism Office", Latitude: 28.6139, Longitude: 77.2090},
		{Name: "Delhi Fire Service", PhoneNumber: "101", Type: "fire_department", Location: "Delhi Fire Department HQ", Latitude: 28.6500, Longitude: 77.2300},
		{Name: "Embassy of United States", PhoneNumber: "+91-11-2419-8000", Type: "embassy", Location: "Chanakyapuri, New Delhi", Latitude: 28.5984, Longitude: 77.1892},
		{Name: "Embassy of United Kingdom", PhoneNumber: "+91-11-2419-2100", Type: "embassy", Location: "Chanakyapuri, New Delhi", Latitude: 28.5950, Longitude: 77.1905},
		{Name: "Tourist Police Booth - India Gate", PhoneNumber: "+91-11-2301-4050", Type: "tourist_police", Location: "India Gate, Rajpath", Latitude: 28.6129, Longitude: 77.2295},
		{Name: "Indira Gandhi International Airport Security", PhoneNumber: "+91-11-2567-5126", Type: "airport_security", Location: "IGI Airport, Terminal 3", Latitude: 28.5562, Longitude: 77.0999},
	}
	for i := range contacts {
		if err := CreateEmergencyContact(db, &contacts[i]); err != nil {
			return err
		}
	}

	logger.Info("seed completed",
		zap.Int("tips", len(tips)),
		zap.Int("alerts", len(alerts)),
		zap.Int("contacts", len(contacts)))
	return nil
}
