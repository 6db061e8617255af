package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Client{},
		&Instructor{},
		&Dietician{},
		&Workout{},
		&WorkoutAssignment{},
		&WorkoutLog{},
		&MealPlan{},
		&MealPlanAssignment{},
		&Appointment{},
		&Conversation{},
		&Message{},
		&Notification{},
		&SystemSettings{},
		&AdminAction{},
	}
}
