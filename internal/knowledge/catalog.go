package knowledge

// Source names cited in answers.
const (
	SourceProtocols   = "Hospital Protocol Manual"
	SourcePharmacy    = "Pharmacy Database"
	SourceStaff       = "Staff Directory"
	SourceSchedule    = "Shift Schedule"
	SourceDepartments = "Department Directory"
	SourcePatients    = "Patient Management System"
	SourceBeds        = "Bed Management System"
)

// Protocol is a clinical procedure keyed by a lowercase trigger phrase.
type Protocol struct {
	Phrase    string `yaml:"phrase"`
	Name      string `yaml:"name"`
	Procedure string `yaml:"procedure"`
}

// DrugInteraction lists substances known to interact with a drug.
type DrugInteraction struct {
	Drug         string   `yaml:"drug"`
	Interactions []string `yaml:"interactions"`
}

// Catalog is the static knowledge base. Order matters: the first protocol
// or drug that matches wins.
type Catalog struct {
	Protocols         []Protocol
	Drugs             []DrugInteraction
	Greetings         []string
	GreetingTemplates []string
	FallbackTemplates []string
	HelpMenu          string
	NightRoster       string
	EmergencyRoster   string
	ScheduleHint      string
	PatientCensus     string
	BedStatus         string
}

// DefaultCatalog returns the built-in knowledge base.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Protocols: []Protocol{
			{
				Phrase: "blood transfusion",
				Name:   "Blood Transfusion",
				Procedure: `**Blood Transfusion Protocol**

1. Verify the physician order and signed patient consent
2. Confirm patient identity with two identifiers at the bedside
3. Check blood product against the patient record with a second nurse
4. Record baseline vitals (temperature, pulse, blood pressure, respiratory rate)
5. Start the transfusion slowly for the first 15 minutes
6. Repeat vitals at 15 minutes, then every 30 minutes
7. Complete the transfusion within 4 hours of issue

⚠️ Stop immediately and notify the physician on any sign of reaction (fever, rash, dyspnoea, back pain)`,
			},
			{
				Phrase: "code blue",
				Name:   "Code Blue",
				Procedure: `**Code Blue Protocol**

1. Call for help and activate the emergency response system (dial 2222)
2. Start CPR: 30 compressions to 2 breaths, rate 100-120/min
3. Attach the defibrillator as soon as it arrives
4. Follow ACLS algorithms for the presenting rhythm
5. Assign a recorder to document times and interventions

⚠️ Minimise interruptions to chest compressions`,
			},
			{
				Phrase: "sepsis",
				Name:   "Sepsis Bundle",
				Procedure: `**Sepsis Protocol (1-hour bundle)**

1. Measure lactate; remeasure if above 2 mmol/L
2. Obtain blood cultures before antibiotics
3. Administer broad-spectrum antibiotics
4. Give 30 mL/kg crystalloid for hypotension or lactate of 4 mmol/L or more
5. Start vasopressors if hypotensive during or after fluid resuscitation

⚠️ Escalate to the critical care outreach team for MAP below 65 mmHg`,
			},
			{
				Phrase: "stroke",
				Name:   "Acute Stroke",
				Procedure: `**Acute Stroke Protocol**

1. Note the time the patient was last known well
2. Assess with FAST and the NIH Stroke Scale
3. Check blood glucose
4. Arrange an urgent non-contrast CT head
5. Page the stroke team for thrombolysis assessment

⚠️ Door-to-needle target is 60 minutes`,
			},
			{
				Phrase: "hand hygiene",
				Name:   "Hand Hygiene",
				Procedure: `**Hand Hygiene Protocol**

1. Clean hands before and after every patient contact
2. Clean hands before aseptic tasks and after body fluid exposure
3. Use alcohol rub for 20-30 seconds, or soap and water for 40-60 seconds
4. Use soap and water when hands are visibly soiled or for C. difficile`,
			},
			{
				Phrase: "fall prevention",
				Name:   "Fall Prevention",
				Procedure: `**Fall Prevention Protocol**

1. Complete a fall risk assessment on admission and after any change in condition
2. Keep the bed in the lowest position with brakes on
3. Keep the call bell and personal items within reach
4. Provide non-slip footwear
5. Review medications that increase fall risk`,
			},
		},
		Drugs: []DrugInteraction{
			{Drug: "Warfarin", Interactions: []string{
				"Aspirin: increased bleeding risk",
				"NSAIDs: increased bleeding risk",
				"Amiodarone: raised INR",
				"Antibiotics (e.g. ciprofloxacin, metronidazole): raised INR",
				"Vitamin K: reduced anticoagulant effect",
			}},
			{Drug: "Metformin", Interactions: []string{
				"Iodinated contrast: risk of lactic acidosis",
				"Alcohol: risk of lactic acidosis",
				"Cimetidine: raised metformin levels",
			}},
			{Drug: "Lisinopril", Interactions: []string{
				"Potassium supplements: hyperkalaemia",
				"Spironolactone: hyperkalaemia",
				"NSAIDs: reduced antihypertensive effect and renal impairment",
				"Lithium: lithium toxicity",
			}},
			{Drug: "Simvastatin", Interactions: []string{
				"Clarithromycin: myopathy risk",
				"Amiodarone: myopathy risk",
				"Grapefruit juice: raised statin levels",
			}},
			{Drug: "Digoxin", Interactions: []string{
				"Amiodarone: digoxin toxicity",
				"Verapamil: digoxin toxicity",
				"Diuretics: hypokalaemia increases toxicity",
			}},
		},
		Greetings: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "greetings"},
		GreetingTemplates: []string{
			"Hello! I'm the clinical assistant. Ask me about protocols, drug interactions, staff or schedules.",
			"Hi there! How can I help you today?",
			"Good to see you. What do you need to look up?",
		},
		FallbackTemplates: []string{
			"I don't have specific information on that. Try asking about:\n• Hospital protocols\n• Drug interactions\n• Staff or department lookups",
			"I couldn't find an answer. You could ask about shift schedules, bed availability or patient counts.",
			"That isn't in my knowledge base yet. Try rephrasing, or ask 'help' to see what I can do.",
		},
		HelpMenu: `**I can help with:**

• **Protocols**: "What is the blood transfusion protocol?"
• **Drug interactions**: "Drug interactions for warfarin"
• **Staff lookup**: "Who is the charge nurse?"
• **Schedules**: "Who is on the night shift?"
• **Departments**: "Cardiology department status"
• **Patients**: "How many patients are admitted?"
• **Beds**: "Bed availability"
• **Summaries**: "Summarize this conversation"`,
		NightRoster: `**Night Shift (19:00-07:00)**

• Emergency: Dr. Michael Rodriguez, Nurse James Park
• Cardiology: Dr. Sarah Chen (on-call)
• Neurology: Dr. Emily Watson (on-call)
• Internal Medicine: Dr. Hannah Fischer`,
		EmergencyRoster: `**Emergency Department On Duty**

• Attending: Dr. Michael Rodriguez
• Charge Nurse: Nurse James Park
• Triage Nurses: 3 on shift
• Trauma team: available 24/7`,
		ScheduleHint: `I can look up schedules. Could you narrow it down?

• **By department**: "Emergency shift schedule"
• **By time**: "Who is working the night shift?"
• **By person**: "Find Dr. Chen"`,
		PatientCensus: `**Current Patient Census**

• Total admitted: 141
• Emergency: 32
• Internal Medicine: 38
• Cardiology: 21
• Other wards: 50`,
		BedStatus: `**Bed Availability**

| Ward | Available | Total |
|---|---|---|
| Emergency | 4 | 30 |
| ICU | 2 | 16 |
| Cardiology | 5 | 24 |
| General Medicine | 11 | 60 |
| Paediatrics | 6 | 20 |`,
	}
}
