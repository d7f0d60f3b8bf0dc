package content

// Demo is the content bundle shipped with the dashboard.
func Demo() Bundle {
	return Bundle{
		Notifications: []Notification{
			{ID: "n1", Title: "Assignment Due Soon", Message: `The assignment "Component Composition" is due tomorrow.`, Date: "2023-11-14", Read: false, Type: NotificationDeadline},
			{ID: "n2", Title: "New Grade Posted", Message: `Your grade for "Hooks Deep Dive" is now available.`, Date: "2023-11-12", Read: true, Type: NotificationGrade},
			{ID: "n3", Title: "New Course Announcement", Message: "Dr. Sarah Smith posted: Welcome to the course!", Date: "2023-10-01", Read: true, Type: NotificationAnnouncement},
		},
		Messages: []Message{
			{
				ID: "m1", Sender: "Alice Johnson", Avatar: "AJ", Subject: "Question about Assignment 1",
				Preview: "Hi Professor, I was wondering if...", Date: "10:30 AM", Read: false,
				Content: "Hi Professor,\n\nI was wondering if we can use functional components for the entire assignment or if class components are required for specific parts?\n\nThanks,\nAlice",
			},
			{
				ID: "m2", Sender: "Bob Smith", Avatar: "BS", Subject: "Extension Request",
				Preview: "I have a medical emergency...", Date: "Yesterday", Read: true,
				Content: "Dear Professor,\n\nI have a medical emergency and might need a 1-day extension on the upcoming deadline. Attached is my medical certificate.\n\nRegards,\nBob",
			},
			{
				ID: "m3", Sender: "System", Avatar: "SY", Subject: "Maintenance Schedule",
				Preview: "LMS will be down on Sunday...", Date: "Nov 10", Read: true,
				Content: "The LMS will be undergoing scheduled maintenance on Sunday from 2 AM to 4 AM UTC.",
			},
		},
		Events: []CalendarEvent{
			{ID: "e1", Title: "Component Composition Due", Date: "2023-11-15", Type: EventAssignment, CourseName: "Modern React Development"},
			{ID: "e2", Title: "Live Q&A Session", Date: "2023-11-16", Type: EventClass, CourseName: "Modern React Development"},
			{ID: "e3", Title: "Hooks Deep Dive Due", Date: "2023-11-22", Type: EventAssignment, CourseName: "Modern React Development"},
			{ID: "e4", Title: "Pandas Dataframes Due", Date: "2023-12-01", Type: EventAssignment, CourseName: "Data Science Fundamentals"},
		},
		Badges: []Badge{
			{ID: "b1", Name: "Fast Learner", Icon: "🚀", Description: "Completed first module in record time."},
			{ID: "b2", Name: "Quiz Master", Icon: "🧠", Description: "Scored 100% on a quiz."},
			{ID: "b3", Name: "Contributor", Icon: "💬", Description: "Posted 5 helpful comments in forums."},
		},
	}
}
