package app_errors

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")

var ErrCourseNotFound = errors.New("course not found")
var ErrInvalidCourse = errors.New("invalid course")
var ErrInvalidInput = errors.New("invalid input")
var ErrLessonNotFound = errors.New("lesson not found")
var ErrNotQuizLesson = errors.New("lesson is not a quiz")

var ErrAlreadyEnrolled = errors.New("already enrolled in this course")
var ErrEnrollmentNotFound = errors.New("enrollment not found")
var ErrRepositoryWrite = errors.New("repository write failed")

// ErrIndeterminateProgress is returned for courses without lessons, where a
// percentage has no denominator.
var ErrIndeterminateProgress = errors.New("course has no lessons, progress is indeterminate")
var ErrEmptyQuiz = errors.New("quiz has no questions")

var ErrNotEligible = errors.New("course is not completed, certificate not available")
var ErrHandoffUnavailable = errors.New("certificate handoff storage is not configured")

var ErrAchievementAlreadyEarned = errors.New("achievement already earned")
