package templates

// orderTexts holds the localized wording of the order emails
type orderTexts struct {
	Subject         string
	Title           string
	TextTitle       string
	OrderNumber     string
	OrderDate       string
	CustomerInfo    string
	Name            string
	Email           string
	Phone           string
	SchoolName      string
	Address         string
	Notes           string
	DeliverToSchool string
	Yes             string
	Configuration   string
	Total           string
	Closing         string

	// Admin only
	ActionRequired     string
	ActionRequiredText string
	PaymentPending     string
	PaymentPendingText string
	CustomerEmail      string
	CustomerContact    string
	ProcessRequestText string
}

type textKey struct {
	audience Audience
	locale   Locale
}

var orderTextCatalog = map[textKey]orderTexts{
	{AudienceCustomer, LocaleDanish}: {
		Subject:         "🎩 Hue Ordre Bekræftelse - %s",
		Title:           "Din Tilpassede Hue Ordre",
		TextTitle:       "TILPASSET HUE ORDRE BEKRÆFTELSE",
		OrderNumber:     "Ordrenummer",
		OrderDate:       "Ordredato",
		CustomerInfo:    "Kundeinformation",
		Name:            "Navn",
		Email:           "E-mail",
		Phone:           "Telefon",
		SchoolName:      "Skolenavn",
		Address:         "Adresse",
		Notes:           "Bemærkninger",
		DeliverToSchool: "Leveres til skole",
		Yes:             "Ja",
		Configuration:   "Hue Konfiguration",
		Total:           "Total Beløb",
		Closing:         "Tak for din ordre! Vi behandler den snarest og kontakter dig, hvis vi har brug for yderligere oplysninger.",
	},
	{AudienceCustomer, LocaleEnglish}: {
		Subject:         "🎩 Cap Order Confirmation - %s",
		Title:           "Your Custom Cap Order",
		TextTitle:       "CUSTOM CAP ORDER CONFIRMATION",
		OrderNumber:     "Order Number",
		OrderDate:       "Order Date",
		CustomerInfo:    "Customer Information",
		Name:            "Name",
		Email:           "Email",
		Phone:           "Phone",
		SchoolName:      "School Name",
		Address:         "Address",
		Notes:           "Notes",
		DeliverToSchool: "Deliver to School",
		Yes:             "Yes",
		Configuration:   "Cap Configuration",
		Total:           "Total Amount",
		Closing:         "Thank you for your order! We will process it shortly and contact you if we need any further information.",
	},
	{AudienceAdmin, LocaleEnglish}: {
		Subject:            "🎩 NEW ORDER: Graduation Cap Order : %s - %s",
		Title:              "NEW GRADUATION CAP ORDER RECEIVED",
		TextTitle:          "NEW GRADUATION CAP ORDER NOTIFICATION - ACTION REQUIRED",
		OrderNumber:        "Order Number",
		OrderDate:          "Order Date",
		CustomerInfo:       "Customer Information",
		Name:               "Name",
		Email:              "Email",
		Phone:              "Phone",
		SchoolName:         "School Name",
		Address:            "Address",
		Notes:              "Customer Notes",
		DeliverToSchool:    "Deliver to School",
		Yes:                "Yes",
		Configuration:      "Cap Configuration",
		Total:              "Total Amount",
		ActionRequired:     "ACTION REQUIRED:",
		ActionRequiredText: "New order received and needs to be processed.",
		PaymentPending:     "PAYMENT PENDING:",
		PaymentPendingText: "Order has been received but payment is pending.",
		CustomerEmail:      "Customer Email",
		CustomerContact:    "Customer Contact",
		ProcessRequestText: "ACTION REQUIRED: Please process this order as soon as possible.",
	},
	{AudienceAdmin, LocaleDanish}: {
		Subject:            "🎩 NY ORDRE: Studenterhue Ordre : %s - %s",
		Title:              "NY STUDENTERHUE ORDRE MODTAGET",
		TextTitle:          "NY STUDENTERHUE ORDRE - HANDLING PÅKRÆVET",
		OrderNumber:        "Ordrenummer",
		OrderDate:          "Ordredato",
		CustomerInfo:       "Kundeinformation",
		Name:               "Navn",
		Email:              "E-mail",
		Phone:              "Telefon",
		SchoolName:         "Skolenavn",
		Address:            "Adresse",
		Notes:              "Kundens bemærkninger",
		DeliverToSchool:    "Leveres til skole",
		Yes:                "Ja",
		Configuration:      "Hue Konfiguration",
		Total:              "Total Beløb",
		ActionRequired:     "HANDLING PÅKRÆVET:",
		ActionRequiredText: "Ny ordre modtaget og skal behandles.",
		PaymentPending:     "AFVENTER BETALING:",
		PaymentPendingText: "Ordren er modtaget, men betalingen afventer.",
		CustomerEmail:      "Kundens e-mail",
		CustomerContact:    "Kundekontakt",
		ProcessRequestText: "HANDLING PÅKRÆVET: Behandl venligst ordren hurtigst muligt.",
	},
}

// workflowTexts holds the localized wording of the stage-change email
type workflowTexts struct {
	Subject     string
	Heading     string
	Greeting    string
	IntroPrefix string
	IntroSuffix string
	Product     string
	Color       string
	Quantity    string
	NewStage    string
	UpdatedAt   string
	UpdatedBy   string
	TokenHint   string
	LinkHint    string
	LinkText    string
	Button      string
	Questions   string
	SignOff     string
	OurTeam     string
}

var workflowTextCatalog = map[Locale]workflowTexts{
	LocaleEnglish: {
		Subject:     "Workflow Update for Your Order Item",
		Heading:     "Workflow Stage Changed",
		Greeting:    "Dear",
		IntroPrefix: "The workflow stage for one of your items in order",
		IntroSuffix: "has been updated.",
		Product:     "Product",
		Color:       "Color",
		Quantity:    "Quantity",
		NewStage:    "New Stage",
		UpdatedAt:   "Updated At",
		UpdatedBy:   "Updated By",
		TokenHint:   "You can use this token to view the order details:",
		LinkHint:    "Click the link below to view your order and track the progress:",
		LinkText:    "View your order here:",
		Button:      "View Order",
		Questions:   "If you have any questions, feel free to contact us.",
		SignOff:     "Best regards,",
		OurTeam:     "Our Team",
	},
	LocaleDanish: {
		Subject:     "Opdatering af din ordre",
		Heading:     "Produktionsstatus ændret",
		Greeting:    "Kære",
		IntroPrefix: "Status for en af varerne i ordre",
		IntroSuffix: "er blevet opdateret.",
		Product:     "Produkt",
		Color:       "Farve",
		Quantity:    "Antal",
		NewStage:    "Ny status",
		UpdatedAt:   "Opdateret",
		UpdatedBy:   "Opdateret af",
		TokenHint:   "Du kan bruge denne kode til at se ordredetaljerne:",
		LinkHint:    "Klik på linket herunder for at se din ordre og følge fremskridtet:",
		LinkText:    "Se din ordre her:",
		Button:      "Se ordre",
		Questions:   "Har du spørgsmål, er du velkommen til at kontakte os.",
		SignOff:     "Med venlig hilsen,",
		OurTeam:     "Vores team",
	},
}
