package api

import (
	"alcyxob/bodytrack/internal/authz"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
)

// Subject resolvers turn a request into the owner of its target resource.

func clientFromPath(param string) SubjectResolver {
	return func(c *gin.Context) (*authz.Subject, error) {
		id, err := pathID(c, param)
		if err != nil {
			return nil, err
		}
		return &authz.Subject{ClientID: id}, nil
	}
}

func trainerFromPath(param string) SubjectResolver {
	return func(c *gin.Context) (*authz.Subject, error) {
		id, err := pathID(c, param)
		if err != nil {
			return nil, err
		}
		return &authz.Subject{TrainerID: id}, nil
	}
}

func routineOwner(routines service.RoutineService, param string) SubjectResolver {
	return func(c *gin.Context) (*authz.Subject, error) {
		id, err := pathID(c, param)
		if err != nil {
			return nil, err
		}
		detail, err := routines.Get(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return &authz.Subject{TrainerID: detail.Routine.TrainerID}, nil
	}
}

func routineEntryOwner(routines service.RoutineService, param string) SubjectResolver {
	return func(c *gin.Context) (*authz.Subject, error) {
		id, err := pathID(c, param)
		if err != nil {
			return nil, err
		}
		entry, err := routines.GetEntry(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		detail, err := routines.Get(c.Request.Context(), entry.RoutineID)
		if err != nil {
			return nil, err
		}
		return &authz.Subject{TrainerID: detail.Routine.TrainerID}, nil
	}
}

func assignmentOwner(assignments service.AssignmentService, param string) SubjectResolver {
	return func(c *gin.Context) (*authz.Subject, error) {
		id, err := pathID(c, param)
		if err != nil {
			return nil, err
		}
		a, err := assignments.Get(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return &authz.Subject{TrainerID: a.TrainerID, ClientID: a.ClientID}, nil
	}
}

func progressOwner(progress service.ProgressService, param string) SubjectResolver {
	return func(c *gin.Context) (*authz.Subject, error) {
		id, err := pathID(c, param)
		if err != nil {
			return nil, err
		}
		record, err := progress.Get(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return &authz.Subject{ClientID: record.ClientID}, nil
	}
}

func postAuthor(forum service.ForumService, param string) SubjectResolver {
	return func(c *gin.Context) (*authz.Subject, error) {
		id, err := pathID(c, param)
		if err != nil {
			return nil, err
		}
		detail, err := forum.GetPost(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return &authz.Subject{UserID: detail.Post.UserID}, nil
	}
}

func commentAuthor(forum service.ForumService, param string) SubjectResolver {
	return func(c *gin.Context) (*authz.Subject, error) {
		id, err := pathID(c, param)
		if err != nil {
			return nil, err
		}
		comment, err := forum.GetComment(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return &authz.Subject{UserID: comment.UserID}, nil
	}
}
