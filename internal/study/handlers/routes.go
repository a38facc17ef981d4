package handlers

import (
	"github.com/architect/studyquest/internal/common/middleware"
	"github.com/architect/studyquest/internal/study/engine"
	"github.com/gin-gonic/gin"
)

var dailyQuizLimit = engine.DefaultDailyQuizLimit

// RegisterRoutes mounts the study API under the given group. limit caps the
// daily review quiz size; pass 0 for the default.
func RegisterRoutes(v1 *gin.RouterGroup, limit int) {
	if limit > 0 {
		dailyQuizLimit = limit
	}

	studyGroup := v1.Group("/study")
	{
		studyGroup.POST("/lectures", middleware.AuthRequired(), RegisterLecture)
		studyGroup.POST("/quizzes/complete", middleware.AuthRequired(), CompleteQuiz)
		studyGroup.POST("/quizzes/confidence", middleware.AuthRequired(), RateConfidence)
		studyGroup.GET("/daily-quiz", middleware.AuthRequired(), GetDailyQuiz)
		studyGroup.POST("/daily-quiz/complete", middleware.AuthRequired(), CompleteDailyQuiz)
		studyGroup.GET("/progress", middleware.AuthRequired(), GetProgress)
		studyGroup.GET("/topics", middleware.AuthRequired(), GetTopics)
		studyGroup.GET("/achievements", middleware.AuthRequired(), GetAchievements)
		studyGroup.POST("/progress/reset", middleware.AuthRequired(), ResetProgress)
		studyGroup.GET("/leaderboard", GetLeaderboard)
	}
}
