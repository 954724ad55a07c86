package recipes

// diet selects between template variants.
type diet struct {
	vegetarian bool
	vegan      bool
}

func (d diet) veg(vegetarian, regular string) string {
	if d.vegetarian {
		return vegetarian
	}
	return regular
}

func (d diet) vegN(vegetarian, regular int) int {
	if d.vegetarian {
		return vegetarian
	}
	return regular
}

func (d diet) plant(vegan, regular string) string {
	if d.vegan {
		return vegan
	}
	return regular
}

type template struct {
	title        string
	description  string
	ingredients  []Ingredient
	instructions []string
	nutrition    NutritionInfo
	youtube      string
	image        string
}

const imageParams = "?q=80&auto=format&fit=crop"

// fallbackCuisines are used when the member has not picked any cuisine.
var fallbackCuisines = []string{"italian", "mexican", "asian", "mediterranean"}

// defaultCuisine supplies templates for cuisines without their own.
const defaultCuisine = "italian"

func templatesFor(d diet) map[string][]template {
	return map[string][]template{
		"italian": {
			{
				title:       "Creamy Tomato Pasta",
				description: "A delicious pasta dish with creamy tomato sauce and herbs.",
				ingredients: []Ingredient{
					{Name: "Pasta", Amount: "200g", Emoji: "🍝"},
					{Name: "Tomatoes", Amount: "4 medium", Emoji: "🍅"},
					{Name: "Olive Oil", Amount: "2 tbsp", Emoji: "🫒"},
					{Name: "Garlic", Amount: "3 cloves", Emoji: "🧄"},
					{Name: "Basil", Amount: "1 handful", Emoji: "🌿"},
					{Name: d.plant("Coconut Cream", "Heavy Cream"), Amount: "1/2 cup", Emoji: "🥛"},
					{Name: d.plant("Nutritional Yeast", "Parmesan Cheese"), Amount: "1/4 cup", Emoji: "🧀"},
				},
				instructions: []string{
					"Boil water and cook pasta according to package instructions.",
					"Heat olive oil in a pan and add minced garlic, sauté until fragrant.",
					"Add diced tomatoes and cook until they break down, about 10 minutes.",
					"Add " + d.plant("coconut cream", "heavy cream") + " and simmer for 5 minutes.",
					"Drain pasta and add to the sauce, toss to combine.",
					"Top with fresh basil and " + d.plant("nutritional yeast", "grated parmesan") + ".",
				},
				nutrition: NutritionInfo{Calories: 450, Protein: 12, Carbs: 65, Fat: 18, Fiber: 4},
				youtube:   "https://www.youtube.com/watch?v=Upqp21Dm5vg",
				image:     "https://images.unsplash.com/photo-1608219992759-8d74ed8d76eb" + imageParams,
			},
			{
				title:       "Mushroom Risotto",
				description: "Creamy Italian risotto with wild mushrooms and herbs.",
				ingredients: []Ingredient{
					{Name: "Arborio Rice", Amount: "1 cup", Emoji: "🍚"},
					{Name: "Mushrooms", Amount: "200g", Emoji: "🍄"},
					{Name: "Vegetable Broth", Amount: "4 cups", Emoji: "🥣"},
					{Name: "White Wine", Amount: "1/2 cup", Emoji: "🍷"},
					{Name: "Onion", Amount: "1 medium", Emoji: "🧅"},
					{Name: "Garlic", Amount: "2 cloves", Emoji: "🧄"},
					{Name: d.plant("Vegan Butter", "Butter"), Amount: "2 tbsp", Emoji: "🧈"},
					{Name: "Thyme", Amount: "1 tsp", Emoji: "🌿"},
					{Name: d.plant("Nutritional Yeast", "Parmesan Cheese"), Amount: "1/4 cup", Emoji: "🧀"},
				},
				instructions: []string{
					"Heat vegetable broth in a pot and keep it simmering.",
					"In another pot, sauté diced onion in " + d.plant("vegan butter", "butter") + " until translucent.",
					"Add minced garlic and sliced mushrooms, cook until mushrooms are browned.",
					"Add arborio rice and stir for 1-2 minutes until slightly toasted.",
					"Add white wine and cook until absorbed.",
					"Add hot broth one ladle at a time, stirring constantly until absorbed before adding more.",
					"Continue until rice is creamy and al dente, about 18-20 minutes.",
					"Stir in thyme and " + d.plant("nutritional yeast", "parmesan cheese") + ".",
				},
				nutrition: NutritionInfo{Calories: 380, Protein: 8, Carbs: 58, Fat: 12, Fiber: 3},
				youtube:   "https://www.youtube.com/watch?v=VOBRECKKMUc",
				image:     "https://images.unsplash.com/photo-1633964913295-ceb43826e7cd" + imageParams,
			},
		},
		"mexican": {
			{
				title:       d.veg("Bean and Veggie Tacos", "Beef Street Tacos"),
				description: "Authentic " + d.veg("vegetarian", "beef") + " tacos with fresh toppings and homemade salsa.",
				ingredients: []Ingredient{
					{Name: d.veg("Black Beans", "Ground Beef"), Amount: d.veg("1 can", "500g"), Emoji: d.veg("🫘", "🥩")},
					{Name: "Corn Tortillas", Amount: "8 small", Emoji: "🌮"},
					{Name: "Onion", Amount: "1 medium", Emoji: "🧅"},
					{Name: "Cilantro", Amount: "1 bunch", Emoji: "🌿"},
					{Name: "Lime", Amount: "2", Emoji: "🍋"},
					{Name: "Avocado", Amount: "1 large", Emoji: "🥑"},
					{Name: "Tomatoes", Amount: "2 medium", Emoji: "🍅"},
					{Name: "Jalapeño", Amount: "1", Emoji: "🌶️"},
				},
				instructions: []string{
					d.veg("Drain and rinse black beans, then sauté with spices.", "Brown ground beef with spices and drain excess fat."),
					"Dice onion, tomatoes, and jalapeño for salsa.",
					"Chop cilantro and slice limes into wedges.",
					"Mash avocado with lime juice, salt, and diced onion to make guacamole.",
					"Warm tortillas on a dry skillet or directly over flame.",
					"Assemble tacos with all ingredients and serve with lime wedges.",
				},
				nutrition: NutritionInfo{Calories: d.vegN(320, 420), Protein: d.vegN(12, 24), Carbs: 45, Fat: d.vegN(10, 20), Fiber: 8},
				youtube:   d.veg("https://www.youtube.com/watch?v=LsXkMn7pQmw", "https://www.youtube.com/watch?v=dYOGH3v3bOw"),
				image: d.veg("https://images.unsplash.com/photo-1584208632869-05fa2b2a5934",
					"https://images.unsplash.com/photo-1613514785940-daed07799d9b") + imageParams,
			},
		},
		"indian": {
			{
				title:       d.veg("Vegetable Curry", "Butter Chicken"),
				description: "Rich and aromatic " + d.veg("vegetable", "chicken") + " curry with warm Indian spices.",
				ingredients: []Ingredient{
					{Name: d.veg("Mixed Vegetables", "Chicken Thighs"), Amount: d.veg("4 cups", "800g"), Emoji: d.veg("🥕", "🍗")},
					{Name: "Onion", Amount: "2 large", Emoji: "🧅"},
					{Name: "Garlic", Amount: "4 cloves", Emoji: "🧄"},
					{Name: "Ginger", Amount: "1 inch piece", Emoji: "🥢"},
					{Name: "Tomatoes", Amount: "3 large", Emoji: "🍅"},
					{Name: "Coconut Milk", Amount: "1 can", Emoji: "🥥"},
					{Name: "Curry Powder", Amount: "2 tbsp", Emoji: "🍛"},
					{Name: "Garam Masala", Amount: "1 tsp", Emoji: "🌶️"},
					{Name: "Turmeric", Amount: "1 tsp", Emoji: "💛"},
					{Name: "Cilantro", Amount: "1 handful", Emoji: "🌿"},
					{Name: d.plant("Rice", "Basmati Rice"), Amount: "2 cups", Emoji: "🍚"},
				},
				instructions: []string{
					"Sauté diced onions until golden brown.",
					"Add minced garlic and ginger, cook until fragrant.",
					"Add spices and stir for 30 seconds until aromatic.",
					"Add diced tomatoes and cook until they break down.",
					d.veg("Add mixed vegetables and coconut milk, simmer until vegetables are tender.",
						"Add chicken pieces and coconut milk, simmer until chicken is fully cooked."),
					"Serve over rice and garnish with fresh cilantro.",
				},
				nutrition: NutritionInfo{Calories: d.vegN(380, 550), Protein: d.vegN(8, 35), Carbs: 45, Fat: d.vegN(18, 28), Fiber: 6},
				youtube:   d.veg("https://www.youtube.com/watch?v=BHcyuzXRqLs", "https://www.youtube.com/watch?v=a03U45jFxOI"),
				image: d.veg("https://images.unsplash.com/photo-1631452180519-c014fe946bc7",
					"https://images.unsplash.com/photo-1588166524941-3bf61a9c41db") + imageParams,
			},
		},
		"mediterranean": {
			{
				title:       "Greek Salad",
				description: "Fresh and vibrant Greek salad with homemade dressing.",
				ingredients: []Ingredient{
					{Name: "Cucumbers", Amount: "2 medium", Emoji: "🥒"},
					{Name: "Tomatoes", Amount: "4 medium", Emoji: "🍅"},
					{Name: "Red Onion", Amount: "1 small", Emoji: "🧅"},
					{Name: "Bell Pepper", Amount: "1 large", Emoji: "🫑"},
					{Name: "Kalamata Olives", Amount: "1/2 cup", Emoji: "🫒"},
					{Name: d.plant("Tofu Feta", "Feta Cheese"), Amount: "200g", Emoji: "🧀"},
					{Name: "Olive Oil", Amount: "1/4 cup", Emoji: "🫒"},
					{Name: "Lemon Juice", Amount: "2 tbsp", Emoji: "🍋"},
					{Name: "Oregano", Amount: "1 tsp", Emoji: "🌿"},
				},
				instructions: []string{
					"Dice cucumbers, tomatoes, red onion, and bell pepper.",
					"Combine vegetables in a large bowl with olives.",
					"Crumble " + d.plant("tofu feta", "feta cheese") + " over the top.",
					"In a small bowl, whisk together olive oil, lemon juice, oregano, salt, and pepper.",
					"Pour dressing over salad and toss gently to combine.",
					"Let sit for 10 minutes before serving to allow flavors to meld.",
				},
				nutrition: NutritionInfo{Calories: 280, Protein: 8, Carbs: 12, Fat: 22, Fiber: 4},
				youtube:   "https://www.youtube.com/watch?v=9ajF5FLMUAY",
				image:     "https://images.unsplash.com/photo-1551248429-40975aa4de74" + imageParams,
			},
			{
				title:       d.veg("Falafel Wrap", "Greek Chicken Wrap"),
				description: "Flavorful " + d.veg("falafel", "chicken") + " wrap with tzatziki and fresh veggies.",
				ingredients: []Ingredient{
					{Name: d.veg("Falafel", "Chicken Breast"), Amount: d.veg("8 pieces", "2 pieces"), Emoji: d.veg("🧆", "🍗")},
					{Name: "Whole Wheat Pita", Amount: "2 large", Emoji: "🫓"},
					{Name: "Cucumber", Amount: "1 medium", Emoji: "🥒"},
					{Name: "Tomato", Amount: "1 large", Emoji: "🍅"},
					{Name: "Red Onion", Amount: "1/2 small", Emoji: "🧅"},
					{Name: "Lettuce", Amount: "2 cups", Emoji: "🥬"},
					{Name: d.plant("Vegan Tzatziki", "Tzatziki Sauce"), Amount: "1/2 cup", Emoji: "🥣"},
					{Name: "Olive Oil", Amount: "1 tbsp", Emoji: "🫒"},
					{Name: "Lemon Juice", Amount: "1 tbsp", Emoji: "🍋"},
				},
				instructions: []string{
					d.veg("Heat falafel according to package instructions or make from scratch.",
						"Season chicken with Mediterranean spices and grill until cooked through."),
					"Slice cucumber, tomato, and red onion thinly.",
					"Warm pita bread slightly.",
					"Spread tzatziki sauce on pita.",
					"Layer with lettuce, vegetables, and protein.",
					"Drizzle with olive oil and lemon juice.",
					"Roll up tightly and serve.",
				},
				nutrition: NutritionInfo{Calories: d.vegN(450, 520), Protein: d.vegN(15, 35), Carbs: 60, Fat: d.vegN(18, 22), Fiber: 8},
				youtube:   d.veg("https://www.youtube.com/watch?v=F3WZdlqh_44", "https://www.youtube.com/watch?v=OBXnM9S_mFg"),
				image: d.veg("https://images.unsplash.com/photo-1553531889-e6cf4d692b1b",
					"https://images.unsplash.com/photo-1668538937455-e65326980169") + imageParams,
			},
		},
		"asian": {
			{
				title:       d.veg("Vegetable Stir Fry", "Teriyaki Chicken Stir Fry"),
				description: "Quick and easy " + d.veg("vegetable", "chicken") + " stir fry with Asian-inspired flavors.",
				ingredients: []Ingredient{
					{Name: d.veg("Tofu", "Chicken Breast"), Amount: d.veg("400g", "500g"), Emoji: d.veg("🧈", "🍗")},
					{Name: "Broccoli", Amount: "1 head", Emoji: "🥦"},
					{Name: "Carrots", Amount: "2 medium", Emoji: "🥕"},
					{Name: "Bell Peppers", Amount: "2 medium", Emoji: "🫑"},
					{Name: "Snap Peas", Amount: "1 cup", Emoji: "🥜"},
					{Name: "Garlic", Amount: "3 cloves", Emoji: "🧄"},
					{Name: "Ginger", Amount: "1 inch piece", Emoji: "🥢"},
					{Name: "Soy Sauce", Amount: "3 tbsp", Emoji: "🍶"},
					{Name: "Rice Vinegar", Amount: "1 tbsp", Emoji: "🍶"},
					{Name: "Sesame Oil", Amount: "1 tbsp", Emoji: "🧴"},
					{Name: "Brown Rice", Amount: "2 cups cooked", Emoji: "🍚"},
				},
				instructions: []string{
					"Cook rice according to package instructions.",
					d.veg("Press and cube tofu, then sauté until golden brown.",
						"Slice chicken into thin strips and stir-fry until no longer pink."),
					"Remove protein and set aside.",
					"In the same pan, stir-fry garlic and ginger for 30 seconds.",
					"Add vegetables and stir-fry until crisp-tender.",
					"Return protein to pan and add soy sauce, rice vinegar, and a bit of water.",
					"Cook for 2 more minutes until sauce thickens slightly.",
					"Drizzle with sesame oil and serve over rice.",
				},
				nutrition: NutritionInfo{Calories: d.vegN(380, 450), Protein: d.vegN(18, 35), Carbs: 45, Fat: d.vegN(12, 15), Fiber: 8},
				youtube:   d.veg("https://www.youtube.com/watch?v=xvPR2Tfw5k0", "https://www.youtube.com/watch?v=yX4KkIwSAvw"),
				image: d.veg("https://images.unsplash.com/photo-1512621776951-a57141f2eefd",
					"https://images.unsplash.com/photo-1603133872878-684f208fb84b") + imageParams,
			},
		},
	}
}
