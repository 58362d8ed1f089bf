package catalog

var (
	conditionBasic = []string{"Neu", "Wie neu", "Gut", "Gebraucht"}
	yesNo          = []string{"Ja", "Nein"}
)

var carModels = map[string][]string{
	"Audi":          {"A1", "A3", "A4", "A5", "A6", "A7", "A8", "Q2", "Q3", "Q5", "Q7", "Q8", "TT", "R8", "e-tron"},
	"BMW":           {"1er", "2er", "3er", "4er", "5er", "6er", "7er", "8er", "X1", "X2", "X3", "X4", "X5", "X6", "X7", "Z4", "i3", "i4", "iX"},
	"Mercedes-Benz": {"A-Klasse", "B-Klasse", "C-Klasse", "E-Klasse", "S-Klasse", "GLA", "GLB", "GLC", "GLE", "GLS", "CLA", "CLS", "AMG GT", "EQC", "EQS"},
	"Volkswagen":    {"Polo", "Golf", "Passat", "Tiguan", "Touareg", "T-Roc", "T-Cross", "Arteon", "ID.3", "ID.4", "ID.5"},
	"Opel":          {"Corsa", "Astra", "Insignia", "Mokka", "Crossland", "Grandland"},
	"Ford":          {"Fiesta", "Focus", "Mondeo", "Kuga", "Puma", "Explorer", "Mustang"},
	"Toyota":        {"Aygo", "Yaris", "Corolla", "Camry", "RAV4", "Highlander", "C-HR", "Prius"},
	"Honda":         {"Jazz", "Civic", "Accord", "CR-V", "HR-V"},
	"Nissan":        {"Micra", "Juke", "Qashqai", "X-Trail", "Leaf"},
	"Mazda":         {"2", "3", "6", "CX-3", "CX-5", "CX-30", "MX-5"},
	"Hyundai":       {},
	"Kia":           {},
	"Peugeot":       {},
	"Renault":       {},
	"Fiat":          {},
	"Volvo":         {},
	"Skoda":         {},
	"Seat":          {},
	"Porsche":       {},
	"Tesla":         {},
	"Andere":        {},
}

var categories = []Category{
	{
		ID: "cars", Name: "Autos", NameDE: "Autos", Icon: "car",
		Fields: []Field{
			{Name: "brand", Label: "Marke", Type: FieldSelect, Options: []string{"Audi", "BMW", "Mercedes-Benz", "Volkswagen", "Opel", "Ford", "Toyota", "Honda", "Nissan", "Mazda", "Hyundai", "Kia", "Peugeot", "Renault", "Fiat", "Volvo", "Skoda", "Seat", "Porsche", "Tesla", "Andere"}},
			{Name: "model", Label: "Modell", Type: FieldSelectDynamic, DependsOn: "brand", DynamicOptions: carModels},
			{Name: "year", Label: "Baujahr", Type: FieldNumber},
			{Name: "mileage", Label: "Kilometerstand", Type: FieldNumber},
			{Name: "fuel_type", Label: "Kraftstoffart", Type: FieldSelect, Options: []string{"Benzin", "Diesel", "Elektro", "Hybrid", "Plug-in-Hybrid", "Erdgas (CNG)", "Autogas (LPG)"}},
			{Name: "transmission", Label: "Getriebe", Type: FieldSelect, Options: []string{"Automatik", "Manuell", "Halbautomatik"}},
			{Name: "power", Label: "Leistung (PS)", Type: FieldNumber},
			{Name: "doors", Label: "Türen", Type: FieldSelect, Options: []string{"2/3", "4/5", "6/7"}},
			{Name: "seats", Label: "Sitze", Type: FieldNumber},
			{Name: "color", Label: "Farbe", Type: FieldSelect, Options: []string{"Schwarz", "Weiß", "Silber", "Grau", "Blau", "Rot", "Grün", "Gelb", "Braun", "Beige", "Orange", "Andere"}},
			{Name: "condition", Label: "Zustand", Type: FieldSelect, Options: []string{"Neu", "Neuwertig", "Gebraucht", "Beschädigt"}},
		},
	},
	{
		ID: "electronics", Name: "Elektronik", NameDE: "Elektronik", Icon: "laptop",
		Fields: []Field{
			{Name: "category", Label: "Kategorie", Type: FieldSelect, Options: []string{"Smartphones", "Tablets", "Laptops", "Desktop-PCs", "Monitore", "Drucker", "Kameras", "TV & Audio", "Smart Home", "Zubehör", "Andere"}},
			{Name: "brand", Label: "Marke", Type: FieldSelect, Options: []string{"Apple", "Samsung", "Huawei", "Xiaomi", "Sony", "LG", "Lenovo", "HP", "Dell", "Asus", "Acer", "Microsoft", "Canon", "Nikon", "Bose", "JBL", "Philips", "Andere"}},
			{Name: "model", Label: "Modell", Type: FieldText},
			{Name: "condition", Label: "Zustand", Type: FieldSelect, Options: []string{"Neu", "Wie neu", "Sehr gut", "Gut", "Akzeptabel", "Defekt"}},
			{Name: "warranty", Label: "Garantie", Type: FieldSelect, Options: []string{"Mit Garantie", "Ohne Garantie"}},
			{Name: "storage", Label: "Speicher", Type: FieldText},
			{Name: "color", Label: "Farbe", Type: FieldText},
		},
	},
	{
		ID: "real_estate", Name: "Immobilien", NameDE: "Immobilien", Icon: "home",
		Fields: []Field{
			{Name: "property_type", Label: "Immobilientyp", Type: FieldSelect, Options: []string{"Wohnung", "Haus", "Villa", "Grundstück", "Gewerbeimmobilie", "Büro", "Garage/Stellplatz", "Andere"}},
			{Name: "listing_type", Label: "Angebotstyp", Type: FieldSelect, Options: []string{"Zu verkaufen", "Zu vermieten", "Zwischenmiete"}},
			{Name: "area", Label: "Wohnfläche (m²)", Type: FieldNumber},
			{Name: "plot_area", Label: "Grundstücksfläche (m²)", Type: FieldNumber},
			{Name: "bedrooms", Label: "Schlafzimmer", Type: FieldNumber},
			{Name: "bathrooms", Label: "Badezimmer", Type: FieldNumber},
			{Name: "floor", Label: "Etage", Type: FieldText},
			{Name: "year_built", Label: "Baujahr", Type: FieldNumber},
			{Name: "heating", Label: "Heizung", Type: FieldSelect, Options: []string{"Zentralheizung", "Gasheizung", "Ölheizung", "Fernwärme", "Wärmepumpe", "Elektrisch", "Keine"}},
			{Name: "parking", Label: "Parkplatz", Type: FieldSelect, Options: []string{"Garage", "Stellplatz", "Tiefgarage", "Keine"}},
			{Name: "balcony", Label: "Balkon/Terrasse", Type: FieldSelect, Options: yesNo},
			{Name: "elevator", Label: "Aufzug", Type: FieldSelect, Options: yesNo},
			{Name: "location", Label: "Standort", Type: FieldText},
		},
	},
	{
		ID: "furniture", Name: "Möbel", NameDE: "Möbel", Icon: "bed",
		Fields: []Field{
			{Name: "category", Label: "Kategorie", Type: FieldSelect, Options: []string{"Wohnzimmer", "Schlafzimmer", "Küche", "Badezimmer", "Büro", "Kinderzimmer", "Garten", "Andere"}},
			{Name: "type", Label: "Möbeltyp", Type: FieldSelect, Options: []string{"Sofa", "Sessel", "Tisch", "Stuhl", "Bett", "Schrank", "Regal", "Kommode", "Andere"}},
			{Name: "material", Label: "Material", Type: FieldSelect, Options: []string{"Holz", "Metall", "Kunststoff", "Glas", "Stoff", "Leder", "Andere"}},
			{Name: "color", Label: "Farbe", Type: FieldText},
			{Name: "dimensions", Label: "Maße (L×B×H in cm)", Type: FieldText},
			{Name: "condition", Label: "Zustand", Type: FieldSelect, Options: conditionBasic},
		},
	},
	{
		ID: "fashion", Name: "Mode", NameDE: "Mode", Icon: "shirt",
		Fields: []Field{
			{Name: "category", Label: "Kategorie", Type: FieldSelect, Options: []string{"Oberbekleidung", "Hosen", "Kleider & Röcke", "Schuhe", "Accessoires", "Taschen", "Uhren", "Schmuck", "Andere"}},
			{Name: "brand", Label: "Marke", Type: FieldText},
			{Name: "size", Label: "Größe", Type: FieldSelect, Options: []string{"XXS", "XS", "S", "M", "L", "XL", "XXL", "XXXL", "Andere"}},
			{Name: "condition", Label: "Zustand", Type: FieldSelect, Options: []string{"Neu mit Etikett", "Neu ohne Etikett", "Wie neu", "Sehr gut", "Gut"}},
			{Name: "gender", Label: "Geschlecht", Type: FieldSelect, Options: []string{"Herren", "Damen", "Unisex", "Kinder"}},
			{Name: "color", Label: "Farbe", Type: FieldText},
			{Name: "material", Label: "Material", Type: FieldText},
		},
	},
	{
		ID: "sports", Name: "Sport & Freizeit", NameDE: "Sport & Freizeit", Icon: "football",
		Fields: []Field{
			{Name: "category", Label: "Kategorie", Type: FieldSelect, Options: []string{"Fitnessgeräte", "Fahrräder", "Camping & Outdoor", "Wintersport", "Wassersport", "Ballsport", "Sportbekleidung", "Andere"}},
			{Name: "brand", Label: "Marke", Type: FieldText},
			{Name: "type", Label: "Typ", Type: FieldText},
			{Name: "size", Label: "Größe", Type: FieldText},
			{Name: "condition", Label: "Zustand", Type: FieldSelect, Options: conditionBasic},
		},
	},
	{
		ID: "garden", Name: "Garten & Heimwerk", NameDE: "Garten & Heimwerk", Icon: "hammer",
		Fields: []Field{
			{Name: "category", Label: "Kategorie", Type: FieldSelect, Options: []string{"Gartengeräte", "Pflanzen", "Gartenmöbel", "Werkzeuge", "Baumaterial", "Andere"}},
			{Name: "brand", Label: "Marke", Type: FieldText},
			{Name: "condition", Label: "Zustand", Type: FieldSelect, Options: conditionBasic},
		},
	},
	{
		ID: "other", Name: "Sonstiges", NameDE: "Sonstiges", Icon: "apps",
		Fields: []Field{
			{Name: "type", Label: "Typ", Type: FieldText},
			{Name: "condition", Label: "Zustand", Type: FieldSelect, Options: []string{"Neu", "Gebraucht"}},
		},
	},
}
