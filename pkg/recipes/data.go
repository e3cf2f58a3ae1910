package recipes

var defaultRecipes = []Recipe{
	{
		ID:           "pasta carbonara",
		Name:         "Pasta Carbonara",
		Ingredients:  []string{"spaghetti", "eggs", "parmesan cheese", "pancetta", "black pepper"},
		Instructions: "Cook pasta. Fry pancetta. Mix eggs with cheese. Combine all with pasta water.",
		PrepMinutes:  10,
		CookMinutes:  15,
		Servings:     4,
	},
	{
		ID:           "chicken stir fry",
		Name:         "Chicken Stir Fry",
		Ingredients:  []string{"chicken breast", "soy sauce", "vegetables (bell peppers, broccoli)", "garlic", "ginger", "sesame oil"},
		Instructions: "Cut chicken and vegetables. Stir fry chicken, add vegetables, season with soy sauce and aromatics.",
		PrepMinutes:  15,
		CookMinutes:  10,
		Servings:     4,
	},
	{
		ID:           "tomato soup",
		Name:         "Tomato Soup",
		Ingredients:  []string{"tomatoes", "onion", "garlic", "vegetable broth", "cream", "basil"},
		Instructions: "Sauté onion and garlic. Add tomatoes and broth. Simmer and blend. Stir in cream.",
		PrepMinutes:  10,
		CookMinutes:  20,
		Servings:     6,
	},
	{
		ID:           "chocolate chip cookies",
		Name:         "Chocolate Chip Cookies",
		Ingredients:  []string{"flour", "butter", "sugar", "eggs", "chocolate chips", "vanilla extract", "baking soda"},
		Instructions: "Mix butter and sugar. Add eggs and vanilla. Mix in dry ingredients and chocolate chips. Bake at 375°F.",
		PrepMinutes:  15,
		CookMinutes:  12,
		Servings:     24,
	},
	{
		ID:           "caesar salad",
		Name:         "Caesar Salad",
		Ingredients:  []string{"romaine lettuce", "caesar dressing", "parmesan cheese", "croutons", "lemon", "anchovies"},
		Instructions: "Chop lettuce. Make dressing with anchovies, lemon, and parmesan. Toss with croutons.",
		PrepMinutes:  10,
		CookMinutes:  0,
		Servings:     4,
	},
	{
		ID:           "beef tacos",
		Name:         "Beef Tacos",
		Ingredients:  []string{"ground beef", "taco shells", "lettuce", "tomatoes", "cheese", "sour cream", "taco seasoning"},
		Instructions: "Brown beef with seasoning. Fill taco shells with beef and toppings.",
		PrepMinutes:  10,
		CookMinutes:  15,
		Servings:     4,
	},
}
