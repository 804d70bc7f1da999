package browser

import "easyapply-engine/internal/apply"

// actionSelectors maps flow controls to what LinkedIn currently renders them
// as. aria-labels have been stable for years; classes churn.
var actionSelectors = map[apply.Action]string{
	apply.ActionFollow:    `label[for='follow-company-checkbox']`,
	apply.ActionSubmit:    `button[aria-label='Submit application']`,
	apply.ActionNext:      `button[aria-label='Continue to next step']`,
	apply.ActionContinue:  `button:has-text('Continue applying')`,
	apply.ActionReview:    `button[aria-label='Review your application']`,
	apply.ActionEasyApply: `button.jobs-apply-button`,
}

// kindSelectors identify each control shape inside one question grouping.
// Probe order lives in the apply package; these only answer "is one here".
var kindSelectors = map[apply.Kind]string{
	apply.KindRadio:        `input[type='radio'][id^='urn:li:fsd_formElement']`,
	apply.KindMultiSelect:  `select[id^='text-entity-list-form-component-formElement'][required]`,
	apply.KindText:         `input[type='text'][id^='single-line-text-form-component-formElement']`,
	apply.KindAutocomplete: `input[aria-autocomplete='list']`,
	apply.KindTextArea:     `textarea`,
	apply.KindFieldset:     `input[type='checkbox'], input[type='radio']`,
	apply.KindDate:         `input[placeholder='mm/dd/yyyy']`,
}

const (
	validationErrorSelector = `.artdeco-inline-feedback__message`
	fieldGroupingSelector   = `.jobs-easy-apply-form-section__grouping`
	todayButtonSelector     = `button[aria-label*='This is today']`
	dismissCardSelector     = `div[data-job-id='%s'] button[aria-label^='Dismiss']`

	// fieldsetOptionAttr is the stable option-identifying attribute on
	// checkbox/radio inputs inside a fieldset.
	fieldsetOptionAttr = "data-test-text-selectable-option__input"

	loginURL             = "https://www.linkedin.com/login?trk=guest_homepage-basic_nav-header-signin"
	feedURL              = "https://www.linkedin.com/feed/"
	usernameSelector     = `#username`
	passwordSelector     = `#password`
	signInSelector       = `button:has-text('Sign in')`
	securityCheckHeading = `h1:has-text('security check')`
	pinInputSelector     = `input[id^='input__email_verification_pin']`
	pinSubmitSelector    = `#email-pin-submit-button`
)
