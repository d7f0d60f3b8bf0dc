package course

// Clone returns a deep copy of c. Absent optional sequences stay nil.
func (c Course) Clone() Course {
	out := c
	out.Modules = cloneModules(c.Modules)
	out.Assignments = cloneSlice(c.Assignments)
	out.Submissions = cloneSlice(c.Submissions)
	out.Announcements = cloneSlice(c.Announcements)

	if c.Quizzes != nil {
		out.Quizzes = make([]Quiz, len(c.Quizzes))
		for i, q := range c.Quizzes {
			out.Quizzes[i] = q
			if q.Questions != nil {
				out.Quizzes[i].Questions = make([]QuizQuestion, len(q.Questions))
				for j, qq := range q.Questions {
					qq.Options = cloneSlice(qq.Options)
					out.Quizzes[i].Questions[j] = qq
				}
			}
		}
	}
	if c.ForumPosts != nil {
		out.ForumPosts = make([]ForumPost, len(c.ForumPosts))
		for i, p := range c.ForumPosts {
			p.Replies = cloneSlice(p.Replies)
			out.ForumPosts[i] = p
		}
	}
	return out
}

func cloneModules(mods []Module) []Module {
	if mods == nil {
		return nil
	}
	out := make([]Module, len(mods))
	for i, m := range mods {
		m.Resources = cloneSlice(m.Resources)
		out[i] = m
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneCourses(courses []Course) []Course {
	out := make([]Course, len(courses))
	for i, c := range courses {
		out[i] = c.Clone()
	}
	return out
}
